// Package config loads and validates gostream engine configuration.
//
// It uses Viper to read a YAML file and environment variables, and godotenv
// to load an optional .env file first. Environment variables carry the
// GOSTREAM_ prefix and map underscores onto nested keys, so
// GOSTREAM_POOL_PARALLELISM sets pool.parallelism.
//
// # Usage
//
//	var cfg config.EngineConfig
//	if err := config.Load("streambench", &cfg); err != nil {
//		return err
//	}
//	cfg.ApplyDefaults()
//	if err := cfg.Validate(); err != nil {
//		return err
//	}
package config
