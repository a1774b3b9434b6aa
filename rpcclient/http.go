package rpcclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// HTTPNodeClient talks to a node over its plain JSON REST surface. The
// real protocol here is HTTP+JSON, not RPC-framework traffic — see
// DESIGN.md for why the corpus's grpc/connect stack was deliberately
// left unwired for this boundary.
type HTTPNodeClient struct {
	baseURL string
	client  *http.Client
}

// NewHTTPNodeClient builds a client against baseURL. A nil client gets a
// conservative default timeout rather than net/http's zero-value
// (never-times-out) client, since a hung node request should surface as
// an error, not a hang.
func NewHTTPNodeClient(baseURL string, client *http.Client) *HTTPNodeClient {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTPNodeClient{baseURL: baseURL, client: client}
}

func (c *HTTPNodeClient) url(path string) string {
	return c.baseURL + path
}

func (c *HTTPNodeClient) do(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("rpcclient: encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.url(path), reqBody)
	if err != nil {
		return fmt.Errorf("rpcclient: build request: %w", err)
	}
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("rpcclient: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("rpcclient: read response from %s: %w", path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("rpcclient: %s %s: node returned %s: %s", method, path, resp.Status, string(data))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("rpcclient: decode response from %s: %w", path, err)
	}
	return nil
}

func (c *HTTPNodeClient) GetStorage(ctx context.Context, contract string) (json.RawMessage, error) {
	var out json.RawMessage
	path := "/chains/main/blocks/head/context/contracts/" + url.PathEscape(contract) + "/storage"
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPNodeClient) Originate(ctx context.Context, req OriginateRequest) (OriginateResult, error) {
	var out OriginateResult
	err := c.do(ctx, http.MethodPost, "/injection/originate", req, &out)
	return out, err
}

func (c *HTTPNodeClient) InvokeEntry(ctx context.Context, req InvokeRequest) (OperationResult, error) {
	var out OperationResult
	err := c.do(ctx, http.MethodPost, "/injection/call", req, &out)
	return out, err
}

func (c *HTTPNodeClient) Inject(ctx context.Context, signedOp []byte) (string, error) {
	var out string
	body := json.RawMessage(signedOp)
	err := c.do(ctx, http.MethodPost, "/injection/operation", body, &out)
	return out, err
}

func (c *HTTPNodeClient) ForgeOperation(ctx context.Context, req ForgeRequest) ([]byte, error) {
	var out string
	if err := c.do(ctx, http.MethodPost, "/chains/main/blocks/head/helpers/forge/operations", req, &out); err != nil {
		return nil, err
	}
	return []byte(out), nil
}
