package module

import (
	"time"

	"geulpi/internal/platform/config"
)

// Options holds configuration settings for the bridge module
type Options struct {
	DefaultTimeout  time.Duration
	ClassifyTimeout time.Duration
	MinTimeout      time.Duration
	SweepInterval   time.Duration
}

// FromConfig reads configuration settings from the config.Conf
func FromConfig(cfg config.Conf) Options {
	bf := cfg.Prefix("CORE_BRIDGE_")
	return Options{
		DefaultTimeout:  bf.MayDuration("DEFAULT_TIMEOUT", 30*time.Second),
		ClassifyTimeout: bf.MayDuration("CLASSIFY_TIMEOUT", 10*time.Second),
		MinTimeout:      bf.MayDuration("MIN_TIMEOUT", 2*time.Second),
		SweepInterval:   bf.MayDuration("SWEEP_INTERVAL", time.Second),
	}
}
