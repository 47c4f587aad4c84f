package http

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-http-utils/headers"
	"github.com/kardolus/gpt5/api"
	"github.com/kardolus/gpt5/config"
)

const (
	contentType              = "application/json"
	errFailedToRead          = "failed to read response: %w"
	errFailedToCreateRequest = "failed to create request: %w"
	errFailedToMakeRequest   = "failed to make request: %w"
)

//go:generate mockgen -destination=../client/callermocks_test.go -package=client_test github.com/kardolus/gpt5/api/http Caller
type Caller interface {
	Post(ctx context.Context, url string, body []byte, extra map[string]string) ([]byte, error)
}

type RestCaller struct {
	client *http.Client
	config config.Config
}

// Ensure RestCaller implements Caller interface
var _ Caller = &RestCaller{}

// New builds a RestCaller with its own http.Client, honoring the configured
// timeout and SkipTLSVerify.
func New(cfg config.Config) *RestCaller {
	client := &http.Client{}
	if cfg.Timeout > 0 {
		client.Timeout = time.Duration(cfg.Timeout) * time.Second
	}

	if cfg.SkipTLSVerify {
		client.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}

	return NewWithClient(cfg, client)
}

// NewWithClient uses client as is. Its timeout and transport are left
// untouched.
func NewWithClient(cfg config.Config, client *http.Client) *RestCaller {
	if client == nil {
		client = http.DefaultClient
	}

	return &RestCaller{
		client: client,
		config: cfg,
	}
}

type CallerFactory func(cfg config.Config) Caller

func RealCallerFactory(cfg config.Config) Caller {
	return New(cfg)
}

// Post sends body as JSON to url. A non-2xx status yields an *api.StatusError
// carrying the raw response body.
func (r *RestCaller) Post(ctx context.Context, url string, body []byte, extra map[string]string) ([]byte, error) {
	req, err := r.newRequest(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, fmt.Errorf(errFailedToCreateRequest, err)
	}

	for k, v := range extra {
		req.Header.Set(k, v)
	}

	response, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf(errFailedToMakeRequest, err)
	}
	defer response.Body.Close()

	result, err := io.ReadAll(response.Body)
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return nil, api.NewStatusError(response.StatusCode, result)
	}
	if err != nil {
		return nil, fmt.Errorf(errFailedToRead, err)
	}

	return result, nil
}

func (r *RestCaller) newRequest(ctx context.Context, method, url string, body []byte) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	if r.config.APIKey != "" {
		req.Header.Set(r.authHeader(), r.config.AuthTokenPrefix+r.config.APIKey)
	}
	req.Header.Set(headers.ContentType, contentType)
	req.Header.Set(headers.Accept, contentType)
	if r.config.UserAgent != "" {
		req.Header.Set(headers.UserAgent, r.config.UserAgent)
	}

	for k, v := range r.config.CustomHeaders {
		req.Header.Set(k, v)
	}

	return req, nil
}

func (r *RestCaller) authHeader() string {
	if r.config.AuthHeader == "" {
		return headers.Authorization
	}
	return r.config.AuthHeader
}
