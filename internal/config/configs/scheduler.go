package configs

import "time"

// Scheduler configures job cadences and the retry policy the harness
// applies around whole-job invocations. The resets run far more often
// than once per period; the per-campaign reset markers make the extra
// invocations no-ops.
type Scheduler struct {
	CheckEvery        time.Duration `env:"CHECK_EVERY" envDefault:"5m"`
	DailyResetEvery   time.Duration `env:"DAILY_RESET_EVERY" envDefault:"15m"`
	MonthlyResetEvery time.Duration `env:"MONTHLY_RESET_EVERY" envDefault:"1h"`
	DaypartingEvery   time.Duration `env:"DAYPARTING_EVERY" envDefault:"1m"`

	// MaxAttempts caps invocations of one run, first try included.
	MaxAttempts      uint64        `env:"MAX_ATTEMPTS" envDefault:"5"`
	RetryInterval    time.Duration `env:"RETRY_INTERVAL" envDefault:"10s"`
	RetryMaxInterval time.Duration `env:"RETRY_MAX_INTERVAL" envDefault:"5m"`
	// RetryJitter is the randomization factor applied to retry intervals.
	RetryJitter float64 `env:"RETRY_JITTER" envDefault:"0.5"`
}
