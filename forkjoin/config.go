package forkjoin

import (
	"fmt"
	"runtime"
)

// Config configures a Pool.
type Config struct {
	// Parallelism is the number of worker slots. 0 means GOMAXPROCS.
	Parallelism int `yaml:"parallelism" mapstructure:"parallelism" validate:"gte=0,lte=4096"`
	// LeafTargetFactor is how many leaf tasks per worker a split tree aims for.
	LeafTargetFactor int `yaml:"leaf_target_factor" mapstructure:"leaf_target_factor" validate:"gte=0,lte=1024"`
	// MinLeafSize is the smallest fragment worth splitting further.
	MinLeafSize int64 `yaml:"min_leaf_size" mapstructure:"min_leaf_size" validate:"gte=0"`
}

// ApplyDefaults applies default values to the pool configuration.
func (c *Config) ApplyDefaults() {
	if c.Parallelism == 0 {
		c.Parallelism = runtime.GOMAXPROCS(0)
	}
	if c.LeafTargetFactor == 0 {
		c.LeafTargetFactor = 4
	}
	if c.MinLeafSize == 0 {
		c.MinLeafSize = 1
	}
}

// Validate validates the pool configuration.
func (c *Config) Validate() error {
	if c.Parallelism < 1 {
		return fmt.Errorf("forkjoin.parallelism must be at least 1 (got: %d)", c.Parallelism)
	}
	if c.LeafTargetFactor < 1 {
		return fmt.Errorf("forkjoin.leaf_target_factor must be at least 1 (got: %d)", c.LeafTargetFactor)
	}
	return nil
}
