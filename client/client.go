// Package client is the Go client for the bookswap REST API. It covers the
// three concerns a front-end needs: an authenticated session (Session), the
// book catalog (Catalog) and the swap request lifecycle (RequestManager).
// All calls go through one transport that attaches the bearer credential
// and maps wire errors back into the apperr taxonomy.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"bookswap/internal/shared/apperr"
)

// tokenSource supplies the current bearer credential. An empty string means
// anonymous. Only the Session writes the credential; everything else reads
// it through this interface on every call.
type tokenSource interface {
	Token() string
}

type Client struct {
	baseURL string
	httpc   *http.Client
	tokens  tokenSource
	logger  zerolog.Logger
}

type Option func(*Client)

func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) { c.httpc = httpc }
}

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

func New(baseURL string, tokens tokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   http.DefaultClient,
		tokens:  tokens,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, "", nil, out)
}

func (c *Client) postJSON(ctx context.Context, path string, body, out interface{}) error {
	return c.doJSON(ctx, http.MethodPost, path, body, out)
}

func (c *Client) patchJSON(ctx context.Context, path string, body, out interface{}) error {
	return c.doJSON(ctx, http.MethodPatch, path, body, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, "", nil, nil)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return apperr.Internal(err)
		}
		reader = bytes.NewReader(encoded)
	}
	return c.do(ctx, method, path, "application/json", reader, out)
}

// postMultipart sends fields plus an optional file part named "image".
func (c *Client) postMultipart(ctx context.Context, path string, fields map[string]string, filename string, file io.Reader, out interface{}) error {
	buf := new(bytes.Buffer)
	form := multipart.NewWriter(buf)

	for key, value := range fields {
		if err := form.WriteField(key, value); err != nil {
			return apperr.Internal(err)
		}
	}
	if file != nil {
		part, err := form.CreateFormFile("image", filename)
		if err != nil {
			return apperr.Internal(err)
		}
		if _, err := io.Copy(part, file); err != nil {
			return apperr.Internal(err)
		}
	}
	if err := form.Close(); err != nil {
		return apperr.Internal(err)
	}

	return c.do(ctx, http.MethodPost, path, form.FormDataContentType(), buf, out)
}

// do issues one request and decodes the response. Transport failures map to
// the network kind; non-2xx statuses decode the server's {code, message}
// body back into the taxonomy. There are no retries: a failure terminates
// the operation and is reported to the caller.
func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return apperr.Internal(err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		c.logger.Debug().Err(err).Str("method", method).Str("path", path).Msg("Transport failure")
		return apperr.Network(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return apperr.Wrap(apperr.KindInternal, "malformed response body", err)
		}
	}
	return nil
}

func decodeError(resp *http.Response) error {
	var wire struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err := json.Unmarshal(raw, &wire); err != nil {
		return apperr.FromStatus(resp.StatusCode, "", fmt.Sprintf("unexpected status %d", resp.StatusCode))
	}
	return apperr.FromStatus(resp.StatusCode, wire.Code, wire.Message)
}
