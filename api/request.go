package api

import (
	"encoding/json"
	"fmt"
	"strings"
)

const (
	MinViableOutputTokens   = 16
	MaxSensibleOutputTokens = 100000

	WarnEmptyInput          = "empty input"
	WarnLowOutputTokens     = "max_output_tokens too low to produce a meaningful response"
	WarnHighOutputTokens    = "max_output_tokens is very high, this may be expensive"
	WarnZeroMaxResults      = "max_results of zero disables search result usage"
	WarnTopPRange           = "top_p should be between 0.0 and 1.0"
	WarnHighEffortLowDetail = "high reasoning effort with low verbosity may not produce detailed output"
	WarnLowEffortHighDetail = "low reasoning effort with high verbosity may not produce the expected detailed output"
	WarnEmptyTools          = "empty tools list provided"
	warnNotGPT5             = "model %q is not a gpt-5 model"
)

// Request is the payload sent to the responses endpoint. Build it with a
// RequestBuilder. Unset optional fields are omitted from the JSON body.
type Request struct {
	Model           Model            `json:"model"`
	Input           *string          `json:"input,omitempty"`
	Instructions    *string          `json:"instructions,omitempty"`
	Tools           []Tool           `json:"tools,omitempty"`
	ToolChoice      *string          `json:"tool_choice,omitempty"`
	Verbosity       *Verbosity       `json:"verbosity,omitempty"`
	ReasoningEffort *ReasoningEffort `json:"reasoning_effort,omitempty"`
	MaxOutputTokens *int             `json:"max_output_tokens,omitempty"`
	TopP            *float64         `json:"top_p,omitempty"`

	// Parameters are extra top-level keys merged into the body. They never
	// replace a key emitted by the typed fields above.
	Parameters map[string]any `json:"-"`

	// WebSearchConfig mirrors the builder's search settings. Only the bare
	// web_search tool marker reaches the wire.
	WebSearchConfig *WebSearchConfig `json:"-"`

	// Warnings are the advisory findings collected by Build.
	Warnings []string `json:"-"`

	toolsSet bool
}

func (r Request) MarshalJSON() ([]byte, error) {
	type wire Request
	data, err := json.Marshal(wire(r))
	if err != nil {
		return nil, err
	}

	if len(r.Parameters) == 0 {
		return data, nil
	}

	var merged map[string]json.RawMessage
	if err := json.Unmarshal(data, &merged); err != nil {
		return nil, err
	}

	for key, value := range r.Parameters {
		if _, taken := merged[key]; taken {
			continue
		}
		encoded, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("failed to encode parameter %q: %w", key, err)
		}
		merged[key] = encoded
	}

	return json.Marshal(merged)
}

// Validate reports self-defeating settings. The findings are advisory: the
// remote service remains the authority on what it accepts.
func (r *Request) Validate() []string {
	var warnings []string

	if r.Input == nil || strings.TrimSpace(*r.Input) == "" {
		warnings = append(warnings, WarnEmptyInput)
	}

	if r.MaxOutputTokens != nil {
		switch tokens := *r.MaxOutputTokens; {
		case tokens < MinViableOutputTokens:
			warnings = append(warnings, WarnLowOutputTokens)
		case tokens > MaxSensibleOutputTokens:
			warnings = append(warnings, WarnHighOutputTokens)
		}
	}

	if cfg := r.WebSearchConfig; cfg != nil && cfg.MaxResults != nil && *cfg.MaxResults < 1 {
		warnings = append(warnings, WarnZeroMaxResults)
	}

	if r.TopP != nil && (*r.TopP < 0 || *r.TopP > 1) {
		warnings = append(warnings, WarnTopPRange)
	}

	if r.ReasoningEffort != nil && r.Verbosity != nil {
		switch {
		case *r.ReasoningEffort == ReasoningEffortHigh && *r.Verbosity == VerbosityLow:
			warnings = append(warnings, WarnHighEffortLowDetail)
		case *r.ReasoningEffort == ReasoningEffortLow && *r.Verbosity == VerbosityHigh:
			warnings = append(warnings, WarnLowEffortHighDetail)
		}
	}

	if r.toolsSet && len(r.Tools) == 0 {
		warnings = append(warnings, WarnEmptyTools)
	}

	if !r.Model.IsGPT5Family() {
		warnings = append(warnings, fmt.Sprintf(warnNotGPT5, r.Model.String()))
	}

	return warnings
}

func (r *Request) hasWebSearchTool() bool {
	for _, tool := range r.Tools {
		if tool.IsWebSearch() {
			return true
		}
	}
	return false
}
