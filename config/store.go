package config

import (
	"os"
	"path/filepath"

	"github.com/kardolus/gpt5/internal"
	"gopkg.in/yaml.v3"
)

const (
	defaultName            = "gpt5"
	defaultModel           = "gpt-5"
	defaultURL             = "https://api.openai.com"
	defaultResponsesPath   = "/v1/responses"
	defaultAuthHeader      = "Authorization"
	defaultAuthTokenPrefix = "Bearer "
	defaultUserAgent       = "gpt5-go"
	defaultTimeout         = 60
	configFileName         = "config.yaml"
)

//go:generate mockgen -destination=storemocks_test.go -package=config_test github.com/kardolus/gpt5/config ConfigStore
type ConfigStore interface {
	Read() (Config, error)
	ReadDefaults() Config
	Write(Config) error
}

// Ensure FileIO implements ConfigStore interface
var _ ConfigStore = &FileIO{}

type FileIO struct {
	configFilePath string
}

func New() *FileIO {
	configPath, _ := getPath()

	return &FileIO{
		configFilePath: configPath,
	}
}

func (f *FileIO) WithConfigPath(configFilePath string) *FileIO {
	f.configFilePath = configFilePath
	return f
}

func (f *FileIO) Read() (Config, error) {
	return parseFile(f.configFilePath)
}

func (f *FileIO) ReadDefaults() Config {
	return Defaults()
}

// Defaults returns the configuration used when neither a config file nor
// the environment override a setting.
func Defaults() Config {
	return Config{
		Name:            defaultName,
		Model:           defaultModel,
		URL:             defaultURL,
		ResponsesPath:   defaultResponsesPath,
		AuthHeader:      defaultAuthHeader,
		AuthTokenPrefix: defaultAuthTokenPrefix,
		UserAgent:       defaultUserAgent,
		Timeout:         defaultTimeout,
	}
}

func (f *FileIO) Write(config Config) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(f.configFilePath), 0o755); err != nil {
		return err
	}

	return os.WriteFile(f.configFilePath, data, 0o600)
}

func getPath() (string, error) {
	homeDir, err := internal.GetConfigHome()
	if err != nil {
		return "", err
	}

	return filepath.Join(homeDir, configFileName), nil
}

func parseFile(fileName string) (Config, error) {
	var result Config

	buf, err := os.ReadFile(fileName)
	if err != nil {
		return Config{}, err
	}

	if err := yaml.Unmarshal(buf, &result); err != nil {
		return Config{}, err
	}

	return result, nil
}
