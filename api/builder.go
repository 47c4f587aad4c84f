package api

import (
	"go.uber.org/zap"
)

// RequestBuilder accumulates request settings through chained setters. The
// order of calls does not matter; setting a field twice keeps the last value.
// A builder is meant for a single owner and is not safe for concurrent use.
type RequestBuilder struct {
	req Request
}

func NewRequestBuilder(model Model) *RequestBuilder {
	return &RequestBuilder{req: Request{Model: model}}
}

func (b *RequestBuilder) Input(text string) *RequestBuilder {
	b.req.Input = &text
	return b
}

// UserText is an alias for Input.
func (b *RequestBuilder) UserText(text string) *RequestBuilder {
	return b.Input(text)
}

func (b *RequestBuilder) Instructions(text string) *RequestBuilder {
	b.req.Instructions = &text
	return b
}

// Tools replaces the whole tool list.
func (b *RequestBuilder) Tools(tools []Tool) *RequestBuilder {
	b.req.Tools = append(make([]Tool, 0, len(tools)), tools...)
	b.req.toolsSet = true
	return b
}

// ToolChoice is passed through as is; the service defines the valid values.
func (b *RequestBuilder) ToolChoice(choice string) *RequestBuilder {
	b.req.ToolChoice = &choice
	return b
}

func (b *RequestBuilder) Verbosity(level Verbosity) *RequestBuilder {
	b.req.Verbosity = &level
	return b
}

func (b *RequestBuilder) ReasoningEffort(effort ReasoningEffort) *RequestBuilder {
	b.req.ReasoningEffort = &effort
	return b
}

func (b *RequestBuilder) MaxOutputTokens(tokens int) *RequestBuilder {
	b.req.MaxOutputTokens = &tokens
	return b
}

func (b *RequestBuilder) TopP(p float64) *RequestBuilder {
	b.req.TopP = &p
	return b
}

// Param sets an extra top-level key on the request body.
func (b *RequestBuilder) Param(key string, value any) *RequestBuilder {
	if b.req.Parameters == nil {
		b.req.Parameters = make(map[string]any)
	}
	b.req.Parameters[key] = value
	return b
}

// WebSearchEnabled toggles the built-in search tool. Disabling it keeps any
// query or result cap set earlier.
func (b *RequestBuilder) WebSearchEnabled(enabled bool) *RequestBuilder {
	b.webSearch().Enabled = enabled
	return b
}

func (b *RequestBuilder) WebSearchQuery(query string) *RequestBuilder {
	b.webSearch().Query = &query
	return b
}

func (b *RequestBuilder) WebSearchMaxResults(n int) *RequestBuilder {
	b.webSearch().MaxResults = &n
	return b
}

func (b *RequestBuilder) webSearch() *WebSearchConfig {
	if b.req.WebSearchConfig == nil {
		b.req.WebSearchConfig = &WebSearchConfig{}
	}
	return b.req.WebSearchConfig
}

// Build validates the accumulated settings and returns the finished request.
// It never fails: problems are reported in Request.Warnings and logged. When
// web search is enabled exactly one bare web_search tool is present in the
// result.
func (b *RequestBuilder) Build() *Request {
	req := b.snapshot()

	if req.WebSearchConfig != nil && req.WebSearchConfig.Enabled && !req.hasWebSearchTool() {
		req.Tools = append(req.Tools, WebSearchTool())
	}

	req.Warnings = req.Validate()

	sugar := zap.S()
	for _, warning := range req.Warnings {
		sugar.Warnf("request builder: %s", warning)
	}

	return &req
}

func (b *RequestBuilder) snapshot() Request {
	req := b.req

	if b.req.Tools != nil {
		req.Tools = append(make([]Tool, 0, len(b.req.Tools)+1), b.req.Tools...)
	}

	if b.req.Parameters != nil {
		req.Parameters = make(map[string]any, len(b.req.Parameters))
		for k, v := range b.req.Parameters {
			req.Parameters[k] = v
		}
	}

	if b.req.WebSearchConfig != nil {
		cfg := *b.req.WebSearchConfig
		req.WebSearchConfig = &cfg
	}

	return req
}
