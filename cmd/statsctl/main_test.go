package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewApp_Commands(t *testing.T) {
	app := newApp(&bytes.Buffer{})

	names := make([]string, 0, len(app.Commands))
	for _, cmd := range app.Commands {
		names = append(names, cmd.Name)
	}
	assert.Equal(t, []string{"snapshot", "mark-seen"}, names)
}

func TestNewApp_InvalidScope(t *testing.T) {
	app := newApp(&bytes.Buffer{})

	err := app.Run([]string{"statsctl", "mark-seen", "--scope", "airline:1"})

	assert.ErrorContains(t, err, "invalid stats scope")
}

func TestNewApp_MissingConfig(t *testing.T) {
	app := newApp(&bytes.Buffer{})

	err := app.Run([]string{"statsctl", "--config", t.TempDir() + "/missing.yaml", "snapshot"})

	assert.Error(t, err)
}
