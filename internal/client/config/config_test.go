package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	assert.Equal(t, "http://127.0.0.1:8080", cfg.ServerBaseURL)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
}

func TestFlagsOverrideDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg, []string{"mountains", "list", "-a", "http://example.org:9999", "-t", "3"})

	assert.Equal(t, "http://example.org:9999", cfg.ServerBaseURL)
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
}

func TestUnrelatedFlagsAreIgnored(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg, []string{"mountains", "list", "-q", "fuji"})

	assert.Equal(t, "http://127.0.0.1:8080", cfg.ServerBaseURL)
}
