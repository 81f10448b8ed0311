// Package job provides the scheduled job aggregate that drives patient reminder
// and care plan delivery emails.
//
// The package includes:
//   - Job: the aggregate root holding the envelope persisted by the job store
//     (id, type, patient, schedule, status, attempts)
//   - Status: the state machine pending -> processing -> completed | pending | failed,
//     plus pending -> cancelled
//   - Type and Payload: a tagged variant; each job type has its own payload struct
//     that only the matching handler decodes
//
// Key business rules:
//   - completed, failed and cancelled are terminal and never revisited
//   - attempts only grow, by exactly one per processing attempt
//   - a job whose attempts reach MaxAttempts after a failure becomes failed
package job
