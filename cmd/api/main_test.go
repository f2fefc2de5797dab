package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hvv-tools/departureboard/internal/appconf"
)

func TestApplyFlags(t *testing.T) {
	cfg := appconf.Default()
	applyFlags(&cfg, 8081, "production", " a , b ", "https://gti.example.org", 7)

	assert.Equal(t, 8081, cfg.Port)
	assert.Equal(t, appconf.Production, cfg.Env)
	assert.Equal(t, []string{"a", "b"}, cfg.ApiKeys)
	assert.Equal(t, "https://gti.example.org", cfg.Geofox.Endpoint)
	assert.Equal(t, 7, cfg.RateLimit)
}

func TestApplyFlagsKeepsConfigWhenUnset(t *testing.T) {
	cfg := appconf.Default()
	cfg.ApiKeys = []string{"from-file"}
	applyFlags(&cfg, 0, "", "", "", -1)

	assert.Equal(t, appconf.Default().Port, cfg.Port)
	assert.Equal(t, []string{"from-file"}, cfg.ApiKeys)
	assert.Equal(t, appconf.Default().RateLimit, cfg.RateLimit)
	assert.Equal(t, appconf.Development, cfg.Env)
}
