package main

import (
	"os"
	"strings"
)

func envFlagEnabled(name string) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(name)))
	switch value {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

func fetchDisabledByEnv() bool {
	return envFlagEnabled("DRIFTWATCH_NO_FETCH")
}

func hyperlinksDisabled() bool {
	return envFlagEnabled("DRIFTWATCH_NO_HYPERLINKS")
}
