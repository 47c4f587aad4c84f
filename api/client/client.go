package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	stdhttp "net/http"
	"strings"
	"time"

	"github.com/kardolus/gpt5/api"
	"github.com/kardolus/gpt5/api/http"
	"github.com/kardolus/gpt5/config"
	"github.com/kardolus/gpt5/internal"
	"go.uber.org/zap"
)

const (
	DefaultTimeout = 60 * time.Second
	errMarshal     = "failed to marshal request: %w"
)

var (
	errNilRequest    = errors.New("nil request")
	errEmptyResponse = errors.New("empty response body")
)

type Client struct {
	Config config.Config
	caller http.Caller
}

// New returns a Client for apiKey with the default endpoint and a 60 second
// timeout.
func New(apiKey string) *Client {
	cfg := config.Defaults()
	cfg.APIKey = apiKey
	cfg.Timeout = int(DefaultTimeout / time.Second)

	return NewFromConfig(http.RealCallerFactory, cfg)
}

// NewWithHTTPClient routes every call through hc. Its timeout, transport and
// middleware are used as is.
func NewWithHTTPClient(apiKey string, hc *stdhttp.Client) *Client {
	cfg := config.Defaults()
	cfg.APIKey = apiKey

	return &Client{
		Config: cfg,
		caller: http.NewWithClient(cfg, hc),
	}
}

func NewFromConfig(callerFactory http.CallerFactory, cfg config.Config) *Client {
	return &Client{
		Config: cfg,
		caller: callerFactory(cfg),
	}
}

func (c *Client) WithBaseURL(url string) *Client {
	c.Config.URL = strings.TrimRight(url, "/")
	return c
}

// Request posts req to the responses endpoint and decodes the reply.
//
// A non-2xx status yields an *api.StatusError, an undecodable body an
// *api.DecodeError. Transport failures are wrapped and reachable through
// errors.Is and errors.As.
func (c *Client) Request(ctx context.Context, req *api.Request) (*api.Response, error) {
	if req == nil {
		return nil, errNilRequest
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf(errMarshal, err)
	}

	endpoint := c.getEndpoint()
	extra := map[string]string{internal.RequestIDHeader: internal.NewRequestID()}

	c.printRequestDebugInfo(endpoint, body, extra)

	raw, err := c.caller.Post(ctx, endpoint, body, extra)
	if err != nil {
		return nil, err
	}

	c.printResponseDebugInfo(raw)

	return decodeResponse(raw)
}

// Simple sends text as the sole input to model and returns the text of the
// reply. It fails with api.ErrNoText when the reply holds no text.
func (c *Client) Simple(ctx context.Context, model api.Model, text string) (string, error) {
	response, err := c.Request(ctx, api.NewRequestBuilder(model).Input(text).Build())
	if err != nil {
		return "", err
	}

	result, ok := response.Text()
	if !ok {
		return "", api.ErrNoText
	}

	return result, nil
}

func (c *Client) getEndpoint() string {
	return c.Config.URL + c.Config.ResponsesPath
}

func decodeResponse(raw []byte) (*api.Response, error) {
	if len(strings.TrimSpace(string(raw))) == 0 {
		return nil, &api.DecodeError{Err: errEmptyResponse}
	}

	var response api.Response
	if err := json.Unmarshal(raw, &response); err != nil {
		return nil, &api.DecodeError{Body: string(raw), Err: err}
	}

	if response.HasError() {
		zap.S().Debugf("response %s reported an error: %s", response.ID, response.Error.Message)
	}

	return &response, nil
}
