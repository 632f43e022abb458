package utils

import "time"

// DefaultTimeout applies when a duration is empty or unparsable.
const DefaultTimeout = 30 * time.Second

// ParseDuration safely parses duration string like "5m"
func ParseDuration(d string) time.Duration {
	if d == "" {
		return DefaultTimeout
	}
	duration, err := time.ParseDuration(d)
	if err != nil || duration <= 0 {
		return DefaultTimeout
	}
	return duration
}
