package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewProductionWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(Opts{Env: "production", Writer: &buf})

	log.WithComponent("Crawler").Info("run finished", "media", 3)

	out := buf.String()
	assert.Contains(t, out, `"message":"run finished"`)
	assert.Contains(t, out, `"component":"Crawler"`)
	assert.Contains(t, out, `"media":3`)
}

func TestProductionSkipsDebug(t *testing.T) {
	var buf bytes.Buffer
	log := New(Opts{Env: "production", Writer: &buf})

	log.Debug("noisy")

	assert.Empty(t, buf.String())
}

func TestDevelopmentKeepsDebug(t *testing.T) {
	var buf bytes.Buffer
	log := New(Opts{Env: "development", Writer: &buf})

	log.Debug("visible")

	assert.Contains(t, buf.String(), "visible")
}
