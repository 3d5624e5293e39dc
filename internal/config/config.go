package config

import (
	"os"
)

// ResubmissionPolicy controls what happens when a student submits to a slot
// they have already submitted to.
type ResubmissionPolicy string

const (
	// ResubmissionAllow keeps every submission as its own record.
	ResubmissionAllow ResubmissionPolicy = "allow"
	// ResubmissionReject refuses a second submission to the same slot.
	ResubmissionReject ResubmissionPolicy = "reject"
	// ResubmissionReplace deletes the previous submission and its files first.
	ResubmissionReplace ResubmissionPolicy = "replace"
)

type Config struct {
	DBDriver           string
	DBHost             string
	DBPort             string
	DBUser             string
	DBPassword         string
	DBName             string
	RedisHost          string
	RedisPort          string
	SessionSecret      string
	GinMode            string
	UploadDir          string
	ResubmissionPolicy ResubmissionPolicy
}

func Load() *Config {
	return &Config{
		DBDriver:           getEnv("DB_DRIVER", "mysql"),
		DBHost:             getEnv("DB_HOST", "localhost"),
		DBPort:             getEnv("DB_PORT", "3306"),
		DBUser:             getEnv("DB_USER", "finalflow"),
		DBPassword:         getEnv("DB_PASSWORD", "finalflow"),
		DBName:             getEnv("DB_NAME", "finalflow"),
		RedisHost:          getEnv("REDIS_HOST", "localhost"),
		RedisPort:          getEnv("REDIS_PORT", "6379"),
		SessionSecret:      getEnv("SESSION_SECRET", "default-secret-key-change-me"),
		GinMode:            getEnv("GIN_MODE", "debug"),
		UploadDir:          getEnv("UPLOAD_DIR", "./uploads"),
		ResubmissionPolicy: parseResubmissionPolicy(getEnv("RESUBMISSION_POLICY", "allow")),
	}
}

func parseResubmissionPolicy(value string) ResubmissionPolicy {
	switch ResubmissionPolicy(value) {
	case ResubmissionReject:
		return ResubmissionReject
	case ResubmissionReplace:
		return ResubmissionReplace
	default:
		return ResubmissionAllow
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
