package cmd

import "time"

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	MS365TenantID     string
	MS365ClientID     string
	MS365ClientSecret string
	SenderEmail       string
	FormBaseURL       string

	AnthropicAPIKey string
	AnthropicModel  string

	JobsSchedule       string
	JobsBatchSize      int
	JobsRetryDelay     time.Duration
	JobsRetryJitter    time.Duration
	JobsHandlerTimeout time.Duration
}

// DefaultFormBaseURL hosts the patient questionnaire.
const DefaultFormBaseURL = "https://jackdau.github.io/yourgp-care-plan-tool"
