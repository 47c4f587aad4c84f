package api

import (
	"encoding/json"
	"strings"
)

const (
	StatusInProgress     Status = "in_progress"
	StatusCompleted      Status = "completed"
	StatusIncomplete     Status = "incomplete"
	StatusFailed         Status = "failed"
	StatusRequiresAction Status = "requires_action"

	MessageType      = "message"
	FunctionCallType = "function_call"
	OutputTextType   = "output_text"
	RefusalType      = "refusal"

	textSeparator = "\n"
)

// Status is the server-reported lifecycle state of a response. The set is
// open: values this package does not know are kept verbatim.
type Status string

func (s Status) IsKnown() bool {
	switch s {
	case StatusInProgress, StatusCompleted, StatusIncomplete, StatusFailed, StatusRequiresAction:
		return true
	}
	return false
}

// Response is a decoded reply from the responses endpoint. Fields the service
// may omit are pointers so that absent and empty stay distinguishable.
type Response struct {
	ID                *string         `json:"id,omitempty"`
	Object            *string         `json:"object,omitempty"`
	CreatedAt         *int64          `json:"created_at,omitempty"`
	Model             *string         `json:"model,omitempty"`
	Status            *Status         `json:"status,omitempty"`
	Output            []OutputItem    `json:"output,omitempty"`
	Usage             *Usage          `json:"usage,omitempty"`
	Error             *ResponseError  `json:"error,omitempty"`
	IncompleteDetails json.RawMessage `json:"incomplete_details,omitempty"`
	Instructions      *string         `json:"instructions,omitempty"`
	MaxOutputTokens   *int            `json:"max_output_tokens,omitempty"`
	ToolChoice        any             `json:"tool_choice,omitempty"`
	Metadata          map[string]any  `json:"metadata,omitempty"`
}

type ResponseError struct {
	Code    *string `json:"code,omitempty"`
	Message string  `json:"message"`
}

type Usage struct {
	InputTokens         *int                 `json:"input_tokens,omitempty"`
	OutputTokens        *int                 `json:"output_tokens,omitempty"`
	ReasoningTokens     *int                 `json:"reasoning_tokens,omitempty"`
	TotalTokens         *int                 `json:"total_tokens,omitempty"`
	InputTokensDetails  *InputTokensDetails  `json:"input_tokens_details,omitempty"`
	OutputTokensDetails *OutputTokensDetails `json:"output_tokens_details,omitempty"`
}

type InputTokensDetails struct {
	CachedTokens *int `json:"cached_tokens,omitempty"`
}

type OutputTokensDetails struct {
	ReasoningTokens *int `json:"reasoning_tokens,omitempty"`
}

// OutputItem is one entry of the output array. Exactly one of Message and
// FunctionCall is set for the known types; other types keep Type and Raw.
type OutputItem struct {
	Type         string
	Message      *OutputMessage
	FunctionCall *FunctionCall
	Raw          json.RawMessage
}

type OutputMessage struct {
	ID      *string       `json:"id,omitempty"`
	Role    *string       `json:"role,omitempty"`
	Status  *Status       `json:"status,omitempty"`
	Content []ContentPart `json:"content,omitempty"`
}

type FunctionCall struct {
	ID        *string `json:"id,omitempty"`
	CallID    *string `json:"call_id,omitempty"`
	Name      *string `json:"name,omitempty"`
	Arguments *string `json:"arguments,omitempty"`
	Status    *Status `json:"status,omitempty"`
}

// ContentPart is one entry of a message's content array.
type ContentPart struct {
	Type    string
	Text    *OutputText
	Refusal *Refusal
	Raw     json.RawMessage
}

type OutputText struct {
	Text        string `json:"text"`
	Annotations []any  `json:"annotations,omitempty"`
}

type Refusal struct {
	Refusal string `json:"refusal"`
}

func (o *OutputItem) UnmarshalJSON(data []byte) error {
	kind, err := typeOf(data)
	if err != nil {
		return err
	}

	*o = OutputItem{Type: kind, Raw: append(json.RawMessage(nil), data...)}

	switch kind {
	case MessageType:
		o.Message = &OutputMessage{}
		return json.Unmarshal(data, o.Message)
	case FunctionCallType:
		o.FunctionCall = &FunctionCall{}
		return json.Unmarshal(data, o.FunctionCall)
	}
	return nil
}

func (o OutputItem) MarshalJSON() ([]byte, error) {
	switch {
	case o.Message != nil:
		return marshalTyped(MessageType, o.Message)
	case o.FunctionCall != nil:
		return marshalTyped(FunctionCallType, o.FunctionCall)
	case len(o.Raw) > 0:
		return o.Raw, nil
	}
	return json.Marshal(struct {
		Type string `json:"type"`
	}{o.Type})
}

func (c *ContentPart) UnmarshalJSON(data []byte) error {
	kind, err := typeOf(data)
	if err != nil {
		return err
	}

	*c = ContentPart{Type: kind, Raw: append(json.RawMessage(nil), data...)}

	switch kind {
	case OutputTextType:
		c.Text = &OutputText{}
		return json.Unmarshal(data, c.Text)
	case RefusalType:
		c.Refusal = &Refusal{}
		return json.Unmarshal(data, c.Refusal)
	}
	return nil
}

func (c ContentPart) MarshalJSON() ([]byte, error) {
	switch {
	case c.Text != nil:
		return marshalTyped(OutputTextType, c.Text)
	case c.Refusal != nil:
		return marshalTyped(RefusalType, c.Refusal)
	case len(c.Raw) > 0:
		return c.Raw, nil
	}
	return json.Marshal(struct {
		Type string `json:"type"`
	}{c.Type})
}

// Text concatenates every output_text part in output order. Parts of one
// message are joined directly; separate messages are joined by a newline.
// The boolean is false only when the response holds no text part at all.
func (r *Response) Text() (string, bool) {
	var (
		messages []string
		found    bool
	)

	for _, item := range r.Output {
		if item.Message == nil {
			continue
		}

		var sb strings.Builder
		hasText := false
		for _, part := range item.Message.Content {
			if part.Text == nil {
				continue
			}
			sb.WriteString(part.Text.Text)
			hasText = true
		}

		if hasText {
			messages = append(messages, sb.String())
			found = true
		}
	}

	return strings.Join(messages, textSeparator), found
}

// AllText returns every output_text part separately, in output order.
func (r *Response) AllText() []string {
	var result []string
	for _, item := range r.Output {
		if item.Message == nil {
			continue
		}
		for _, part := range item.Message.Content {
			if part.Text != nil {
				result = append(result, part.Text.Text)
			}
		}
	}
	return result
}

func (r *Response) Refusals() []string {
	var result []string
	for _, item := range r.Output {
		if item.Message == nil {
			continue
		}
		for _, part := range item.Message.Content {
			if part.Refusal != nil {
				result = append(result, part.Refusal.Refusal)
			}
		}
	}
	return result
}

// FunctionCalls returns the function call items in output order. The result
// is empty, never nil, when there are none.
func (r *Response) FunctionCalls() []*FunctionCall {
	result := make([]*FunctionCall, 0)
	for _, item := range r.Output {
		if item.FunctionCall != nil {
			result = append(result, item.FunctionCall)
		}
	}
	return result
}

func (r *Response) IsCompleted() bool {
	return r.Status != nil && *r.Status == StatusCompleted
}

func (r *Response) RequiresAction() bool {
	return r.Status != nil && *r.Status == StatusRequiresAction
}

func (r *Response) HasError() bool {
	return r.Error != nil
}

// TotalTokens returns usage.total_tokens, or 0 when the service omitted it.
func (r *Response) TotalTokens() int {
	if r.Usage == nil || r.Usage.TotalTokens == nil {
		return 0
	}
	return *r.Usage.TotalTokens
}

// ReasoningTokens reads usage.reasoning_tokens, falling back to
// usage.output_tokens_details.reasoning_tokens.
func (r *Response) ReasoningTokens() (int, bool) {
	if r.Usage == nil {
		return 0, false
	}
	if r.Usage.ReasoningTokens != nil {
		return *r.Usage.ReasoningTokens, true
	}
	if d := r.Usage.OutputTokensDetails; d != nil && d.ReasoningTokens != nil {
		return *d.ReasoningTokens, true
	}
	return 0, false
}

func typeOf(data []byte) (string, error) {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return "", err
	}
	return probe.Type, nil
}

func marshalTyped(kind string, v any) ([]byte, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, err
	}

	typeValue, err := json.Marshal(kind)
	if err != nil {
		return nil, err
	}
	fields["type"] = typeValue

	return json.Marshal(fields)
}
