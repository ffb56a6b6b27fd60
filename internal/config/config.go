// Package config defines service configuration structures and loading hooks.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DataURL is the location of the static catalog JSON. When set, the
	// catalog is fetched over HTTP with a cache-busting query parameter.
	DataURL string `koanf:"data_url"`

	// DataFile is a local catalog path, used when DataURL is empty.
	DataFile string `koanf:"data_file"`

	// RefreshIntervalSec controls how often the append-only dataset is
	// re-fetched in the background. Zero disables refreshing.
	RefreshIntervalSec int `koanf:"refresh_interval_sec"`

	// BundleScheme selects the display-label scheme for bundles:
	// "basket" or "meal".
	BundleScheme string `koanf:"bundle_scheme"`

	// AllowPartialBundles controls whether a bundle whose member list
	// only partially resolves is still playable.
	AllowPartialBundles bool `koanf:"allow_partial_bundles"`

	// MinSliderSteps is the minimum number of slider positions to aim
	// for when deriving the guessing range.
	MinSliderSteps int `koanf:"min_slider_steps"`

	// BaseStepMinor is the finest slider granularity in minor units.
	BaseStepMinor int `koanf:"base_step_minor"`

	// HistorySize bounds the in-memory store of evaluated guesses.
	HistorySize int `koanf:"history_size"`

	// RecordQueueSize bounds the queue of guess records awaiting storage.
	RecordQueueSize int `koanf:"record_queue_size"`

	// WorkerCount sets how many workers drain the record queue.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize bounds the set of remembered result fingerprints.
	DedupeSize int `koanf:"dedupe_size"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		Addr:                ":9080",
		DataURL:             "",
		DataFile:            "data.json",
		RefreshIntervalSec:  300,
		BundleScheme:        "basket",
		AllowPartialBundles: true,
		MinSliderSteps:      20,
		BaseStepMinor:       10,
		HistorySize:         10_000,
		RecordQueueSize:     10_000,
		WorkerCount:         2,
		DedupeSize:          50_000,
	}
}
