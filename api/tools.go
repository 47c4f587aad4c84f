package api

import "encoding/json"

const (
	FunctionToolType  = "function"
	WebSearchToolType = "web_search"
)

// Tool describes a capability offered to the model. Function tools carry a
// name, a description and a JSON schema for their parameters; built-in tools
// such as web search carry only their type.
type Tool struct {
	Type        string
	Name        *string
	Description *string
	Parameters  any
}

func FunctionTool(name, description string, parameters any) Tool {
	return Tool{
		Type:        FunctionToolType,
		Name:        &name,
		Description: &description,
		Parameters:  parameters,
	}
}

func WebSearchTool() Tool {
	return Tool{Type: WebSearchToolType}
}

func (t Tool) IsFunction() bool {
	return t.Type == FunctionToolType
}

func (t Tool) IsWebSearch() bool {
	return t.Type == WebSearchToolType
}

// MarshalJSON emits only the type for non-function tools; the API rejects
// any other key on them.
func (t Tool) MarshalJSON() ([]byte, error) {
	if !t.IsFunction() {
		return json.Marshal(struct {
			Type string `json:"type"`
		}{Type: t.Type})
	}

	return json.Marshal(struct {
		Type        string  `json:"type"`
		Name        *string `json:"name,omitempty"`
		Description *string `json:"description,omitempty"`
		Parameters  any     `json:"parameters,omitempty"`
	}{
		Type:        t.Type,
		Name:        t.Name,
		Description: t.Description,
		Parameters:  t.Parameters,
	})
}

func (t *Tool) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type        string          `json:"type"`
		Name        *string         `json:"name"`
		Description *string         `json:"description"`
		Parameters  json.RawMessage `json:"parameters"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*t = Tool{Type: raw.Type, Name: raw.Name, Description: raw.Description}
	if len(raw.Parameters) > 0 && string(raw.Parameters) != "null" {
		t.Parameters = raw.Parameters
	}
	return nil
}

// WebSearchConfig holds the caller's web search preferences. It stays on the
// built Request so the caller can run the search manually when the model
// defers to them; it is never sent on the wire.
type WebSearchConfig struct {
	Enabled    bool    `json:"enabled" yaml:"enabled"`
	Query      *string `json:"query,omitempty" yaml:"query,omitempty"`
	MaxResults *int    `json:"max_results,omitempty" yaml:"max_results,omitempty"`
}
