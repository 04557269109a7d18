// Package network talks to the local storage-network node. The node owns
// all protocol, encryption, and wallet concerns; this client is a thin
// remote procedure surface over its HTTP API.
package network

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/jamsplayer/jams/internal/domain"
)

const (
	defaultTimeout = 30 * time.Second
	userAgent      = "Jams/1.0"

	// Downloads can take far longer than control calls
	downloadTimeout = 10 * time.Minute
)

// Client implements domain.NetworkClient against the node's HTTP API.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	downloadClient *http.Client
	logger         *slog.Logger
}

// NewClient creates a node client.
func NewClient(baseURL string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:        baseURL,
		httpClient:     &http.Client{Timeout: defaultTimeout},
		downloadClient: &http.Client{Timeout: downloadTimeout},
		logger:         logger,
	}
}

// Upload stores a local file on the network and returns its xorname.
func (c *Client) Upload(ctx context.Context, path string) (string, error) {
	body, err := c.post(ctx, c.httpClient, "/upload", map[string]string{"path": path})
	if err != nil {
		return "", err
	}

	var resp struct {
		Xorname string `json:"xorname"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("parse upload response: %w", err)
	}

	c.logger.Info("uploaded file", "path", path, "xorname", resp.Xorname)
	return resp.Xorname, nil
}

// Download fetches the content behind xorname into the destination folder.
func (c *Client) Download(ctx context.Context, xorname, fileName, destination string) (domain.FileDetail, error) {
	payload := map[string]string{
		"xorname":     xorname,
		"destination": destination,
	}
	if fileName != "" {
		payload["fileName"] = fileName
	}

	body, err := c.post(ctx, c.downloadClient, "/download", payload)
	if err != nil {
		return domain.FileDetail{}, err
	}

	var detail domain.FileDetail
	if err := json.Unmarshal(body, &detail); err != nil {
		return domain.FileDetail{}, fmt.Errorf("parse download response: %w", err)
	}

	c.logger.Debug("downloaded file", "xorname", xorname, "path", detail.Path)
	return detail, nil
}

// Connect joins the network. A non-empty networkOverride selects a testnet
// peer instead of the official network.
func (c *Client) Connect(ctx context.Context, networkOverride string) error {
	payload := map[string]string{}
	if networkOverride != "" {
		payload["peer"] = networkOverride
	}
	_, err := c.post(ctx, c.httpClient, "/connect", payload)
	if err != nil {
		return err
	}
	c.logger.Info("connected to network", "peer", networkOverride)
	return nil
}

// SignIn unlocks the node's account with the user's secret. The secret is
// forwarded once and never stored.
func (c *Client) SignIn(ctx context.Context, secret string) error {
	_, err := c.post(ctx, c.httpClient, "/signin", map[string]string{"secret": secret})
	return err
}

// Disconnect leaves the network. The boolean reports whether the node was
// connected.
func (c *Client) Disconnect(ctx context.Context) (bool, error) {
	body, err := c.post(ctx, c.httpClient, "/disconnect", nil)
	if err != nil {
		return false, err
	}

	var resp struct {
		WasConnected bool `json:"wasConnected"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return false, fmt.Errorf("parse disconnect response: %w", err)
	}
	return resp.WasConnected, nil
}

// IsConnected reports whether the node has a live network session. Any
// failure reads as disconnected.
func (c *Client) IsConnected(ctx context.Context) bool {
	_, err := c.get(ctx, "/address")
	return err == nil
}

// ClientAddress returns the node's client address.
func (c *Client) ClientAddress(ctx context.Context) (string, error) {
	return c.getString(ctx, "/address", "address")
}

// Balance returns the wallet balance as an opaque string.
func (c *Client) Balance(ctx context.Context) (string, error) {
	return c.getString(ctx, "/balance", "balance")
}

// FetchMetadata extracts audio metadata from local files through the node.
func (c *Client) FetchMetadata(ctx context.Context, paths []string) ([]domain.MetadataDetail, error) {
	body, err := c.post(ctx, c.httpClient, "/metadata", map[string][]string{"paths": paths})
	if err != nil {
		return nil, err
	}

	var details []domain.MetadataDetail
	if err := json.Unmarshal(body, &details); err != nil {
		return nil, fmt.Errorf("parse metadata response: %w", err)
	}
	return details, nil
}

func (c *Client) getString(ctx context.Context, path, field string) (string, error) {
	body, err := c.get(ctx, path)
	if err != nil {
		return "", err
	}
	var resp map[string]string
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("parse %s response: %w", path, err)
	}
	return resp[field], nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	return c.do(ctx, c.httpClient, http.MethodGet, path, nil)
}

func (c *Client) post(ctx context.Context, client *http.Client, path string, payload any) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}
	return c.do(ctx, client, http.MethodPost, path, body)
}

func (c *Client) do(ctx context.Context, client *http.Client, method, path string, body io.Reader) ([]byte, error) {
	reqURL, err := url.JoinPath(c.baseURL, path)
	if err != nil {
		return nil, fmt.Errorf("build request url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	c.logger.Debug("node request", "method", method, "url", reqURL)

	resp, err := client.Do(req)
	if err != nil {
		c.logger.Error("node request failed", "error", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrUnknown, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return data, nil
	case http.StatusNotFound:
		return nil, domain.ErrNotFound
	case http.StatusPaymentRequired:
		return nil, domain.ErrPaymentRequired
	default:
		c.logger.Error("node request error", "status", resp.StatusCode, "body", string(data))
		return nil, fmt.Errorf("%w: status %d", domain.ErrUnknown, resp.StatusCode)
	}
}
