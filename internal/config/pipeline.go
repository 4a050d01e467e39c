package config

import "os"

const EnvPipelineCacheDir = "GRANITE_PIPELINE_CACHE_DIR"

// PipelineConfig holds settings for the record extraction pipeline.
type PipelineConfig struct {
	// CacheDir is the directory for cached parsed records, sharded by
	// upload id.
	CacheDir string `toml:"cache_dir"`
}

// Finalize applies defaults and environment variable overrides.
func (c *PipelineConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *PipelineConfig) Merge(overlay *PipelineConfig) {
	if overlay.CacheDir != "" {
		c.CacheDir = overlay.CacheDir
	}
}

func (c *PipelineConfig) loadDefaults() {
	if c.CacheDir == "" {
		c.CacheDir = "data/records"
	}
}

func (c *PipelineConfig) loadEnv() {
	if v := os.Getenv(EnvPipelineCacheDir); v != "" {
		c.CacheDir = v
	}
}
