package configs

import "time"

// Enforcer tunes the enforcement engine. Values are injected into the
// engine at construction; nothing reads them globally afterwards.
type Enforcer struct {
	// CheckFrequency is the default interval between budget re-checks,
	// used for campaigns without a per-campaign override.
	CheckFrequency time.Duration `env:"CHECK_FREQUENCY" envDefault:"15m"`
	// PageSize bounds how many campaigns one sweep batch loads.
	PageSize int `env:"PAGE_SIZE" envDefault:"100"`
}
