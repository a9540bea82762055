// Package sysutil contains process-level helpers shared by configuration
// and logging bootstrap: zerolog level selection and forgiving parsing of
// environment variable values.
package sysutil

import (
	"strings"

	"github.com/rs/zerolog"
)

// SetLogLevel sets the global zerolog level from a config string.
// Recognized (case-insensitive): debug, info, warn/warning, error,
// fatal, panic. Empty or unrecognized values select info, never an
// error: a bad LOG_LEVEL must not prevent startup.
func SetLogLevel(lvl string) {
	s := strings.ToLower(strings.TrimSpace(lvl))
	if s == "warning" {
		s = "warn"
	}
	if s == "" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		return
	}
	l, err := zerolog.ParseLevel(s)
	if err != nil || l == zerolog.NoLevel || l == zerolog.TraceLevel {
		l = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(l)
}

// IsTruthy reports whether an environment variable value means "enabled".
// Accepted (case-insensitive): "1", "true", "yes", "y", "on". Anything
// else, including empty, is false.
func IsTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "y", "on":
		return true
	}
	return false
}

// FirstNonEmpty returns the first value that is not blank after
// trimming, or "" when every value is blank. The winning value is
// returned as given, untrimmed.
func FirstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
