package module

import (
	"time"

	"geulpi/internal/platform/config"
)

// Options holds configuration settings for the assist module
type Options struct {
	UnderstandTimeout time.Duration
	ClassifyTimeout   time.Duration
	OptimizeTimeout   time.Duration
}

// FromConfig reads configuration settings from the config.Conf.
// Zero values defer to the bridge's per kind defaults
func FromConfig(cfg config.Conf) Options {
	af := cfg.Prefix("CORE_ASSIST_")
	return Options{
		UnderstandTimeout: af.MayDuration("UNDERSTAND_TIMEOUT", 0),
		ClassifyTimeout:   af.MayDuration("CLASSIFY_TIMEOUT", 0),
		OptimizeTimeout:   af.MayDuration("OPTIMIZE_TIMEOUT", 0),
	}
}
