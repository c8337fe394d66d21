package utils

import (
	"os"
	"strings"
)

func environment() string {
	return strings.ToLower(strings.TrimSpace(os.Getenv("ENVIRONMENT")))
}

// IsProd reports whether ENVIRONMENT names a production deployment.
func IsProd() bool {
	switch environment() {
	case "production", "prod":
		return true
	}
	return false
}

// IsDev reports whether the service runs locally. An unset ENVIRONMENT counts
// as development so a .env file is picked up without extra setup.
func IsDev() bool {
	switch environment() {
	case "development", "dev", "local", "":
		return true
	}
	return false
}

func GetEnvironment() string {
	if env := environment(); env != "" {
		return env
	}
	return "development"
}
