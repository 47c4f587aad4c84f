package utils

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
	"github.com/kardolus/gpt5/api"
	"github.com/kardolus/gpt5/config"
	"gopkg.in/yaml.v3"
)

const (
	renderStyle       = "dark"
	errMissingName    = "tool %d has no name"
	errParseTools     = "failed to parse tools file: %w"
	errInvalidSetting = "invalid %s: %w"
)

type toolDefinition struct {
	Type        string         `yaml:"type"`
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Parameters  map[string]any `yaml:"parameters"`
}

// ParseTools reads a yaml or json list of function tools. Entries typed
// web_search become the built-in search tool.
func ParseTools(data []byte) ([]api.Tool, error) {
	var definitions []toolDefinition
	if err := yaml.Unmarshal(data, &definitions); err != nil {
		return nil, fmt.Errorf(errParseTools, err)
	}

	tools := make([]api.Tool, 0, len(definitions))
	for i, def := range definitions {
		if def.Type == api.WebSearchToolType {
			tools = append(tools, api.WebSearchTool())
			continue
		}
		if def.Name == "" {
			return nil, fmt.Errorf(errMissingName, i)
		}

		var params any
		if def.Parameters != nil {
			params = def.Parameters
		}
		tools = append(tools, api.FunctionTool(def.Name, def.Description, params))
	}

	return tools, nil
}

func LoadTools(fileName string) ([]api.Tool, error) {
	data, err := os.ReadFile(fileName)
	if err != nil {
		return nil, err
	}
	return ParseTools(data)
}

// BuildRequest maps the effective configuration onto a request for prompt.
// A nil tools slice leaves the tool list unset.
func BuildRequest(cfg config.Config, prompt string, tools []api.Tool) (*api.Request, error) {
	builder := api.NewRequestBuilder(api.CustomModel(cfg.Model)).Input(prompt)

	if cfg.Instructions != "" {
		builder.Instructions(cfg.Instructions)
	}

	if cfg.Effort != "" {
		effort, err := api.ParseReasoningEffort(cfg.Effort)
		if err != nil {
			return nil, fmt.Errorf(errInvalidSetting, "effort", err)
		}
		builder.ReasoningEffort(effort)
	}

	if cfg.Verbosity != "" {
		verbosity, err := api.ParseVerbosity(cfg.Verbosity)
		if err != nil {
			return nil, fmt.Errorf(errInvalidSetting, "verbosity", err)
		}
		builder.Verbosity(verbosity)
	}

	if cfg.MaxOutputTokens > 0 {
		builder.MaxOutputTokens(cfg.MaxOutputTokens)
	}

	if cfg.ToolChoice != "" {
		builder.ToolChoice(cfg.ToolChoice)
	}

	if tools != nil {
		builder.Tools(tools)
	}

	if cfg.Web {
		builder.WebSearchEnabled(true)
		if cfg.WebQuery != "" {
			builder.WebSearchQuery(cfg.WebQuery)
		}
		if cfg.WebMaxResults != 0 {
			builder.WebSearchMaxResults(cfg.WebMaxResults)
		}
	}

	return builder.Build(), nil
}

// PrintResponse writes the text of response to w followed by refusals,
// function calls and, when the model defers a web search to the caller, the
// suggested query. It returns api.ErrNoText when there is nothing to show.
func PrintResponse(w io.Writer, req *api.Request, response *api.Response, render bool) error {
	printed := false

	if text, ok := response.Text(); ok {
		if render {
			text = Render(text)
		}
		fmt.Fprintln(w, text)
		printed = true
	}

	for _, refusal := range response.Refusals() {
		color.New(color.FgRed).Fprintf(w, "refusal: %s\n", refusal)
		printed = true
	}

	for _, call := range response.FunctionCalls() {
		color.New(color.FgCyan).Fprintf(w, "function call: %s(%s)\n", deref(call.Name), deref(call.Arguments))
		printed = true
	}

	if response.RequiresAction() && req != nil && req.WebSearchConfig != nil && req.WebSearchConfig.Query != nil {
		color.New(color.FgYellow).Fprintf(w, "suggested search: %s\n", *req.WebSearchConfig.Query)
		printed = true
	}

	if !printed {
		return api.ErrNoText
	}
	return nil
}

// Render formats markdown for the terminal. The input is returned unchanged
// when rendering fails.
func Render(text string) string {
	out, err := glamour.Render(text, renderStyle)
	if err != nil {
		return text
	}
	return out
}

func ReadPipedInput(in *os.File) (string, error) {
	stat, err := in.Stat()
	if err != nil {
		return "", err
	}
	if stat.Mode()&os.ModeCharDevice != 0 {
		return "", nil
	}

	data, err := io.ReadAll(in)
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func FormatPrompt(str string, counter, usage int, now time.Time) string {
	variables := map[string]string{
		"%datetime": now.Format("2006-01-02 15:04:05"),
		"%date":     now.Format("2006-01-02"),
		"%time":     now.Format("15:04:05"),
		"%counter":  fmt.Sprintf("%d", counter),
		"%usage":    fmt.Sprintf("%d", usage),
	}

	// longest placeholders first, %date is a prefix of %datetime
	for _, key := range []string{"%datetime", "%date", "%time", "%counter", "%usage"} {
		str = strings.ReplaceAll(str, key, variables[key])
	}

	if str != "" && !strings.HasSuffix(str, " ") {
		str += " "
	}

	return str
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
