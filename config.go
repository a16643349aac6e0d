package immutability

import (
	"log/slog"
	"reflect"
)

// Config controls registry construction.
type Config struct {
	// Logger receives registry writes at Debug and recovered latch read
	// failures at Warn. Nil uses slog.Default() at log time.
	Logger *slog.Logger

	// Metrics records classification, verification, and registry write
	// counts. Nil disables recording.
	Metrics *Metrics

	// Intrinsics are extra types seeded as locked PlatformConstant entries
	// alongside the built-in set. They can only be supplied here, before the
	// registry is observable.
	Intrinsics []reflect.Type
}

// DefaultConfig returns a config with no metrics and no extra intrinsics.
func DefaultConfig() Config {
	return Config{}
}
