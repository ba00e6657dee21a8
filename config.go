package qstab

import (
	"runtime"

	"github.com/spf13/viper"
)

// Config controls how gate row loops are distributed over worker threads.
type Config struct {
	// Workers is the number of OS-thread-backed workers in the dispatcher.
	Workers int
	// ParallelThreshold is the minimum row count before a row loop is
	// handed to the worker pool instead of running inline.
	ParallelThreshold int
}

// NewConfig returns the default configuration, overridable through the
// QSTAB_WORKERS and QSTAB_PARALLEL_THRESHOLD environment variables.
func NewConfig() *Config {
	viper.SetEnvPrefix("qstab")
	viper.AutomaticEnv()
	viper.SetDefault("workers", runtime.NumCPU())
	viper.SetDefault("parallel_threshold", 64)

	return &Config{
		Workers:           viper.GetInt("workers"),
		ParallelThreshold: viper.GetInt("parallel_threshold"),
	}
}
