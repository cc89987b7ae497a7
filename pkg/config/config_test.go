package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_StoreConfig(t *testing.T) {
	os.Setenv("STORE_BACKEND", "postgres")
	os.Setenv("STORE_FILE_PATH", "/tmp/patients.json")
	defer func() {
		os.Unsetenv("STORE_BACKEND")
		os.Unsetenv("STORE_FILE_PATH")
	}()

	cfg, err := Load()
	assert.NoError(t, err)

	assert.Equal(t, StoreBackendPostgres, cfg.Store.Backend)
	assert.Equal(t, "/tmp/patients.json", cfg.Store.FilePath)
}

func TestLoad_Defaults(t *testing.T) {
	os.Unsetenv("STORE_BACKEND")
	os.Unsetenv("STORE_FILE_PATH")
	os.Unsetenv("SERVER_PORT")

	cfg, err := Load()
	assert.NoError(t, err)

	assert.Equal(t, StoreBackendFile, cfg.Store.Backend)
	assert.Equal(t, "data/patients.json", cfg.Store.FilePath)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "symptom-triage", cfg.OTEL.ServiceName)
}

func TestLoad_InvalidIntFallsBack(t *testing.T) {
	os.Setenv("SERVER_PORT", "not-a-number")
	defer os.Unsetenv("SERVER_PORT")

	cfg, err := Load()
	assert.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
}
