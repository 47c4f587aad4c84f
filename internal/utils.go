package internal

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

const (
	ConfigHomeEnv    = "GPT5_CONFIG_HOME"
	DefaultConfigDir = ".gpt5"
)

// NewRequestID returns a fresh value for the RequestIDHeader.
func NewRequestID() string {
	return uuid.NewString()
}

func GetConfigHome() (string, error) {
	if tmp := os.Getenv(ConfigHomeEnv); tmp != "" {
		return tmp, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(homeDir, DefaultConfigDir), nil
}
