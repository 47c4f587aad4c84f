package config

type Config struct {
	Name            string            `yaml:"name"`
	APIKey          string            `yaml:"api_key"`
	APIKeyFile      string            `yaml:"api_key_file"`
	Model           string            `yaml:"model"`
	URL             string            `yaml:"url"`
	ResponsesPath   string            `yaml:"responses_path"`
	AuthHeader      string            `yaml:"auth_header"`
	AuthTokenPrefix string            `yaml:"auth_token_prefix"`
	UserAgent       string            `yaml:"user_agent"`
	Timeout         int               `yaml:"timeout"`
	MaxOutputTokens int               `yaml:"max_output_tokens"`
	Effort          string            `yaml:"effort"`
	Verbosity       string            `yaml:"verbosity"`
	Instructions    string            `yaml:"instructions"`
	ToolChoice      string            `yaml:"tool_choice"`
	Web             bool              `yaml:"web"`
	WebQuery        string            `yaml:"web_query"`
	WebMaxResults   int               `yaml:"web_max_results"`
	SkipTLSVerify   bool              `yaml:"skip_tls_verify"`
	Render          bool              `yaml:"render"`
	CustomHeaders   map[string]string `yaml:"custom_headers"`
}
