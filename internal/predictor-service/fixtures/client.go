package fixtures

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

var ErrUpstreamRejected = errors.New("api-football rejected request")

// Client fala com a API-Football via RapidAPI
type Client struct {
	BaseURL string
	Host    string
	HTTP    *http.Client
}

func New(baseURL, host string, timeout time.Duration) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Host:    host,
		HTTP:    &http.Client{Timeout: timeout},
	}
}

// Fetch faz GET {BaseURL}/{path}?{params} com a credencial informada
func (c *Client) Fetch(ctx context.Context, apiKey, path string, params url.Values) (Envelope, error) {
	u := c.BaseURL + "/" + strings.TrimLeft(path, "/")
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Envelope{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("X-RapidAPI-Key", apiKey)
	req.Header.Set("X-RapidAPI-Host", c.Host)
	req.Header.Set("Accept", "application/json")

	res, err := c.HTTP.Do(req)
	if err != nil {
		return Envelope{}, err
	}
	defer res.Body.Close()

	if res.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, 4<<10))
		return Envelope{}, fmt.Errorf("api-football %s http %d", path, res.StatusCode)
	}

	var env Envelope
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		return Envelope{}, fmt.Errorf("decode %s: %w", path, err)
	}
	if len(env.Response) == 0 && hasUpstreamErrors(env.Errors) {
		return Envelope{}, fmt.Errorf("%w: %v", ErrUpstreamRejected, env.Errors)
	}
	if env.Response == nil {
		env.Response = []json.RawMessage{}
	}
	return env, nil
}
