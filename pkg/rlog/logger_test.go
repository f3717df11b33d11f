package rlog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInit_ReturnsUsableLogger(t *testing.T) {
	logger := Init(Options{})
	logger.Info("hello", "k", "v")
	assert.True(t, true)
}

func TestInit_RotateFileWritesOutput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "redisgo.log")
	logger := Init(Options{RotateFile: path})
	logger.Info("hello from rotate test")

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestIsProdRuntime_DefaultsFalse(t *testing.T) {
	os.Unsetenv(runtimeEnv)
	assert.False(t, isProdRuntime())
	os.Setenv(runtimeEnv, "prod")
	defer os.Unsetenv(runtimeEnv)
	assert.True(t, isProdRuntime())
}
