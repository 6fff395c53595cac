package api

import (
	"time"
)

type Configuration struct {
	Env                 string
	AppName             string
	AppVersion          string
	Port                string
	RequestLoggingLevel string
	DefaultTimeout      time.Duration
	// Questions run several LLM calls and warehouse queries
	QuestionTimeout time.Duration

	AllowedOrigins        []string
	IpHashSalt            string
	QuestionRatePerMinute int
	QuestionRateBurst     int
	EnablePrometheus      bool
}
