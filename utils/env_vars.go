package utils

import (
	"log"
	"os"
	"strconv"
	"time"
)

type envVarType interface {
	string | int | int64 | bool | float64 | time.Duration
}

// GetEnv reads an environment variable and converts it to the type of the default value.
// It panics if the value is set but cannot be converted.
func GetEnv[T envVarType](envVarName string, defaultValue T) T {
	envValue, ok := os.LookupEnv(envVarName)
	if !ok || envValue == "" {
		return defaultValue
	}

	value, err := parseEnvValue[T](envValue)
	if err != nil {
		log.Panicf("environment variable %s is not valid: '%s' (%s)", envVarName, envValue, err)
	}
	return value
}

func GetRequiredEnv[T envVarType](envVarName string) T {
	envValue, ok := os.LookupEnv(envVarName)
	if !ok || envValue == "" {
		log.Fatalf("%s environment variable is required", envVarName)
	}

	value, err := parseEnvValue[T](envValue)
	if err != nil {
		log.Fatalf("environment variable %s is not valid: '%s' (%s)", envVarName, envValue, err)
	}
	return value
}

func parseEnvValue[T envVarType](envValue string) (T, error) {
	var value T
	var parsed any
	var err error

	switch any(value).(type) {
	case string:
		parsed = envValue
	case int:
		parsed, err = strconv.Atoi(envValue)
	case int64:
		parsed, err = strconv.ParseInt(envValue, 10, 64)
	case bool:
		parsed, err = strconv.ParseBool(envValue)
	case float64:
		parsed, err = strconv.ParseFloat(envValue, 64)
	case time.Duration:
		parsed, err = time.ParseDuration(envValue)
	}
	if err != nil {
		return value, err
	}
	return parsed.(T), nil
}
