package main

import (
	"testing"

	"taskboard/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_FlagsOverrideConfig(t *testing.T) {
	// Arrange
	cfg := &config.Config{ServerPort: "8080", SeedSource: "fixture"}
	cmd := newRootCmd(cfg)

	// Act
	err := cmd.ParseFlags([]string{"--port", "9000", "--seed", "postgres", "--redis-addr", "localhost:6379", "--debug"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.ServerPort)
	assert.Equal(t, "postgres", cfg.SeedSource)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.True(t, cfg.Debug)
}

func TestRootCmd_DefaultsFromConfig(t *testing.T) {
	// Arrange
	cfg := &config.Config{ServerPort: "7070", SeedSource: "fixture"}
	cmd := newRootCmd(cfg)

	// Act
	err := cmd.ParseFlags(nil)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.ServerPort)
	assert.Equal(t, "7070", cmd.Flags().Lookup("port").DefValue)
}
