package config

import (
	"os"
	"strings"
)

// SafeModeEnv reads the SAFE_MODE environment variable. The second return
// value reports whether the variable is set at all; when set, it overrides
// every other safe-mode setting.
func SafeModeEnv() (value bool, present bool) {
	raw, ok := os.LookupEnv("SAFE_MODE")
	if !ok {
		return false, false
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "on":
		return true, true
	default:
		return false, true
	}
}

// ResolveSafeMode computes the effective safe-mode flag for one source.
// Precedence: environment override, then pipeline-level override, then the
// source's own flag, then the file-level default.
func ResolveSafeMode(source Source, fileDefault bool, envValue bool, envSet bool, pipelineOverride *bool) bool {
	if envSet {
		return envValue
	}
	if pipelineOverride != nil {
		return *pipelineOverride
	}
	if source.SafeMode != nil {
		return *source.SafeMode
	}
	return fileDefault
}
