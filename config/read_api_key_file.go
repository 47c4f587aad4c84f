package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const maxAPIKeyFileBytes int64 = 4 * 1024

var (
	errKeyFileNotRegular = errors.New("api key file must be a regular file")
	errKeyFileEmpty      = errors.New("api key file is empty")
	errKeyFileTooLarge   = fmt.Errorf("api key file too large (max %d bytes)", maxAPIKeyFileBytes)
)

// ReadAPIKeyFile returns the trimmed contents of a key file. Only regular
// files up to maxAPIKeyFileBytes are accepted.
func ReadAPIKeyFile(path string) (string, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("failed to open api key file: %w", err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to stat api key file: %w", err)
	}
	if !st.Mode().IsRegular() {
		return "", errKeyFileNotRegular
	}
	if st.Size() > maxAPIKeyFileBytes {
		return "", errKeyFileTooLarge
	}

	b, err := io.ReadAll(io.LimitReader(f, maxAPIKeyFileBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read api key file: %w", err)
	}
	if int64(len(b)) > maxAPIKeyFileBytes {
		return "", errKeyFileTooLarge
	}

	key := strings.TrimSpace(string(b))
	if key == "" {
		return "", errKeyFileEmpty
	}
	return key, nil
}
