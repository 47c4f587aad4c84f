package config

import (
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/kardolus/gpt5/internal"
	"gopkg.in/yaml.v3"
)

type Manager struct {
	configStore ConfigStore
	Config      Config
}

func NewManager(cs ConfigStore) *Manager {
	configuration := cs.ReadDefaults()

	userConfig, err := cs.Read()
	if err == nil {
		configuration = replaceByConfigFile(configuration, userConfig)
	}

	return &Manager{configStore: cs, Config: configuration}
}

func (c *Manager) WithEnvironment() *Manager {
	c.Config = replaceByEnvironment(c.Config)
	return c
}

func (c *Manager) APIKeyEnvVarName() string {
	return strings.ToUpper(c.Config.Name) + "_" + "API_KEY"
}

// APIKey returns the configured key, reading APIKeyFile when no key is set
// inline.
func (c *Manager) APIKey() (string, error) {
	if c.Config.APIKey != "" {
		return c.Config.APIKey, nil
	}
	if c.Config.APIKeyFile == "" {
		return "", nil
	}
	return ReadAPIKeyFile(c.Config.APIKeyFile)
}

// WriteModel persists model as the default model in the config store. Only
// the model is written on top of what the store already holds, so values
// coming from the environment do not leak into the file.
func (c *Manager) WriteModel(model string) error {
	stored, err := c.configStore.Read()
	if err != nil {
		stored = Config{}
	}
	stored.Model = model
	c.Config.Model = model

	return c.configStore.Write(stored)
}

// ShowConfig serializes the current configuration to a YAML string with the
// API key masked.
func (c *Manager) ShowConfig() (string, error) {
	shown := c.Config
	if shown.APIKey != "" {
		shown.APIKey = internal.APIKeyMask
	}

	data, err := yaml.Marshal(shown)
	if err != nil {
		return "", err
	}

	return string(data), nil
}

func replaceByConfigFile(defaultConfig, userConfig Config) Config {
	t := reflect.TypeOf(defaultConfig)
	vDefault := reflect.ValueOf(&defaultConfig).Elem()
	vUser := reflect.ValueOf(userConfig)

	for i := 0; i < t.NumField(); i++ {
		defaultField := vDefault.Field(i)
		userField := vUser.Field(i)

		switch defaultField.Kind() {
		case reflect.String:
			if userStr := userField.String(); userStr != "" {
				defaultField.SetString(userStr)
			}
		case reflect.Int:
			if userInt := int(userField.Int()); userInt != 0 {
				defaultField.SetInt(int64(userInt))
			}
		case reflect.Bool:
			defaultField.SetBool(userField.Bool())
		case reflect.Map:
			if userField.Len() > 0 {
				defaultField.Set(userField)
			}
		}
	}

	return defaultConfig
}

func replaceByEnvironment(configuration Config) Config {
	t := reflect.TypeOf(configuration)
	v := reflect.ValueOf(&configuration).Elem()

	prefix := strings.ToUpper(configuration.Name) + "_"
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("yaml")
		if tag == "name" {
			continue
		}

		if value := os.Getenv(prefix + strings.ToUpper(tag)); value != "" {
			field := v.Field(i)

			switch field.Kind() {
			case reflect.String:
				field.SetString(value)
			case reflect.Int:
				intValue, _ := strconv.Atoi(value)
				field.SetInt(int64(intValue))
			case reflect.Bool:
				boolValue, _ := strconv.ParseBool(value)
				field.SetBool(boolValue)
			}
		}
	}

	return configuration
}
