package integration_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/kardolus/gpt5/config"
	"github.com/kardolus/gpt5/internal"
	"github.com/kardolus/gpt5/test"
	"github.com/onsi/gomega/gexec"
)

const (
	expectedToken = "valid-api-key"
	gitCommit     = "some-git-commit"
	gitVersion    = "some-git-version"
)

var (
	onceBuild  sync.Once
	binaryPath string
	buildErr   error
)

func buildBinary() error {
	onceBuild.Do(func() {
		binaryPath, buildErr = gexec.Build(
			"github.com/kardolus/gpt5/cmd/gpt5",
			"-ldflags",
			fmt.Sprintf("-X main.GitCommit=%s -X main.GitVersion=%s", gitCommit, gitVersion))
	})
	return buildErr
}

type recordedRequest struct {
	Body      map[string]any
	RequestID string
}

// mockServer answers on the responses path. Requests offering a function
// tool get a function call back, requests with web search are deferred to
// the caller and everything else is echoed.
type mockServer struct {
	*httptest.Server

	mu       sync.Mutex
	requests []recordedRequest
}

func newMockServer() *mockServer {
	m := &mockServer{}
	m.Server = httptest.NewServer(http.HandlerFunc(m.postResponses))
	return m
}

func (m *mockServer) Requests() []recordedRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]recordedRequest(nil), m.requests...)
}

func (m *mockServer) postResponses(w http.ResponseWriter, r *http.Request) {
	if err := validateRequest(w, r, http.MethodPost); err != nil {
		fmt.Printf("invalid request: %s\n", err.Error())
		return
	}

	if err := checkBearerToken(r, expectedToken); err != nil {
		http.Error(w, createAuthError(), http.StatusUnauthorized)
		return
	}

	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	m.mu.Lock()
	m.requests = append(m.requests, recordedRequest{Body: body, RequestID: r.Header.Get(internal.RequestIDHeader)})
	m.mu.Unlock()

	var (
		response []byte
		err      error
	)

	switch toolTypes(body) {
	case "function":
		response, err = test.FileToBytes("response_function_call.json")
	case "web_search":
		response, err = test.FileToBytes("response_requires_action.json")
	default:
		response, err = echoResponse(fmt.Sprintf("echo: %v", body["input"]))
	}

	if err != nil {
		fmt.Printf("error reading fixture: %s\n", err.Error())
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	_, _ = w.Write(response)
}

func toolTypes(body map[string]any) string {
	tools, _ := body["tools"].([]any)
	for _, tool := range tools {
		if entry, ok := tool.(map[string]any); ok && entry["type"] == "function" {
			return "function"
		}
	}
	if len(tools) > 0 {
		return "web_search"
	}
	return ""
}

func echoResponse(text string) ([]byte, error) {
	template, err := test.FileToBytes("response_completed.json")
	if err != nil {
		return nil, err
	}

	encoded, err := json.Marshal(text)
	if err != nil {
		return nil, err
	}

	return []byte(strings.Replace(string(template), `"%s"`, string(encoded), 1)), nil
}

func checkBearerToken(r *http.Request, expectedToken string) error {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return errors.New("missing Authorization header")
	}

	requestToken, found := strings.CutPrefix(authHeader, config.Defaults().AuthTokenPrefix)
	if !found {
		return errors.New("malformed Authorization header")
	}

	if requestToken != expectedToken {
		return errors.New("invalid token")
	}

	return nil
}

func createAuthError() string {
	response, err := test.FileToBytes("error.json")
	if err != nil {
		fmt.Printf("error reading error.json: %s\n", err.Error())
		return ""
	}

	return string(response)
}

func validateRequest(w http.ResponseWriter, r *http.Request, allowedMethod string) error {
	if r.Method != allowedMethod {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return errors.New("method not allowed")
	}

	if r.URL.Path != config.Defaults().ResponsesPath {
		w.WriteHeader(http.StatusNotFound)
		return errors.New("unknown path " + r.URL.Path)
	}

	return nil
}
