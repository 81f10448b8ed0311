// Package errs provides standardized error types for the care plan service.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// The package includes several error types for common error scenarios:
//   - ValueIsRequiredError: a required value is missing (e.g. a patient practice ID)
//   - ValueIsInvalidError: a value is present but not acceptable (e.g. an illegal job status transition)
//   - ValueIsOutOfRangeError: a numeric value falls outside its bounds (e.g. batch size)
//   - ObjectNotFoundError: a patient, submission or job cannot be found
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrValueIsRequired)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method so callers can match with errors.Is
package errs
