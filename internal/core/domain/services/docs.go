// Package services contains stateless domain services of the care plan domain:
//   - ConditionDetector: keyword based chronic condition detection
//   - ParseGPName / ParseSite: metadata extraction from practice software exports
//   - CarePlanPromptBuilder: system prompt and user message for the language model
//   - QuestionnaireBuilder: SMART goal question sets per detected condition
//   - InviteEmail / ReminderEmail / CarePlanEmail: patient email templates
package services
