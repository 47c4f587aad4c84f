package api

import (
	"fmt"
	"strings"
)

const (
	ModelGPT5     Model = "gpt-5"
	ModelGPT5Mini Model = "gpt-5-mini"
	ModelGPT5Nano Model = "gpt-5-nano"

	ReasoningEffortLow    ReasoningEffort = "low"
	ReasoningEffortMedium ReasoningEffort = "medium"
	ReasoningEffortHigh   ReasoningEffort = "high"

	VerbosityLow    Verbosity = "low"
	VerbosityMedium Verbosity = "medium"
	VerbosityHigh   Verbosity = "high"

	gpt5Prefix = "gpt-5"

	errUnknownEffort    = "unknown reasoning effort %q (expected low, medium or high)"
	errUnknownVerbosity = "unknown verbosity %q (expected low, medium or high)"
)

// Model identifies the model a request is addressed to. The three predefined
// models cover the gpt-5 family; CustomModel passes any other name through
// verbatim.
type Model string

// CustomModel returns a Model carrying name exactly as given.
func CustomModel(name string) Model {
	return Model(name)
}

// String returns the wire name of the model. It is never empty: the zero
// value resolves to ModelGPT5.
func (m Model) String() string {
	if m == "" {
		return string(ModelGPT5)
	}
	return string(m)
}

func (m Model) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m Model) IsGPT5Family() bool {
	return strings.HasPrefix(m.String(), gpt5Prefix)
}

// ReasoningEffort controls how much internal deliberation the model spends.
type ReasoningEffort string

func ParseReasoningEffort(s string) (ReasoningEffort, error) {
	switch e := ReasoningEffort(strings.ToLower(strings.TrimSpace(s))); e {
	case ReasoningEffortLow, ReasoningEffortMedium, ReasoningEffortHigh:
		return e, nil
	}
	return "", fmt.Errorf(errUnknownEffort, s)
}

// Verbosity controls how detailed the response text is.
type Verbosity string

func ParseVerbosity(s string) (Verbosity, error) {
	switch v := Verbosity(strings.ToLower(strings.TrimSpace(s))); v {
	case VerbosityLow, VerbosityMedium, VerbosityHigh:
		return v, nil
	}
	return "", fmt.Errorf(errUnknownVerbosity, s)
}
