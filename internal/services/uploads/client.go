package uploads

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultHTTPTimeout = 60 * time.Second

// Config captures the runtime settings required to talk to the upload service.
type Config struct {
	BaseURL        string
	APIKey         string
	TimeoutSeconds int
}

// Meta describes the file being uploaded.
type Meta struct {
	FileName string
	BatchID  int64
	ItemID   int64
}

// Result is the hosted location the service assigned to the upload.
type Result struct {
	URL         string `json:"url"`
	DisplayName string `json:"display_name"`
}

// Client wraps the upload service HTTP API.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient constructs an upload client using the supplied configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg: Config{
			BaseURL:        strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
			APIKey:         strings.TrimSpace(cfg.APIKey),
			TimeoutSeconds: cfg.TimeoutSeconds,
		},
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return client
}

// Upload streams the file to the service as a multipart POST and returns the
// hosted URL and display name the service assigned.
func (c *Client) Upload(ctx context.Context, file io.Reader, meta Meta) (Result, error) {
	var empty Result
	if c.cfg.BaseURL == "" {
		return empty, errors.New("upload: base url required")
	}
	if file == nil {
		return empty, errors.New("upload: file required")
	}
	fileName := strings.TrimSpace(meta.FileName)
	if fileName == "" {
		return empty, errors.New("upload: file name required")
	}

	// Stream the multipart body through a pipe so large videos never buffer
	// fully in memory.
	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)
	go func() {
		err := writeMultipartBody(writer, file, fileName, meta)
		if closeErr := writer.Close(); err == nil {
			err = closeErr
		}
		pw.CloseWithError(err)
	}()

	endpoint, err := url.JoinPath(c.cfg.BaseURL, "uploads")
	if err != nil {
		return empty, fmt.Errorf("upload: build url: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, pr)
	if err != nil {
		return empty, fmt.Errorf("upload: new request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return empty, fmt.Errorf("upload: http error: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return empty, fmt.Errorf("upload: read body: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return empty, fmt.Errorf("upload: http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed Result
	if err := json.Unmarshal(body, &parsed); err != nil {
		return empty, fmt.Errorf("upload: decode response: %w", err)
	}
	parsed.URL = strings.TrimSpace(parsed.URL)
	parsed.DisplayName = strings.TrimSpace(parsed.DisplayName)
	if parsed.URL == "" {
		return empty, errors.New("upload: service returned no url")
	}
	if parsed.DisplayName == "" {
		parsed.DisplayName = fileName
	}
	return parsed, nil
}

// HealthCheck verifies the service answers and accepts the configured key.
func (c *Client) HealthCheck(ctx context.Context) error {
	if c.cfg.BaseURL == "" {
		return errors.New("upload health: base url required")
	}
	endpoint, err := url.JoinPath(c.cfg.BaseURL, "health")
	if err != nil {
		return fmt.Errorf("upload health: build url: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("upload health: new request: %w", err)
	}
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("upload health: http error: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("upload health: http %d", resp.StatusCode)
	}
	return nil
}

func writeMultipartBody(writer *multipart.Writer, file io.Reader, fileName string, meta Meta) error {
	if meta.BatchID > 0 {
		if err := writer.WriteField("batch_id", strconv.FormatInt(meta.BatchID, 10)); err != nil {
			return fmt.Errorf("upload: write batch id: %w", err)
		}
	}
	if meta.ItemID > 0 {
		if err := writer.WriteField("item_id", strconv.FormatInt(meta.ItemID, 10)); err != nil {
			return fmt.Errorf("upload: write item id: %w", err)
		}
	}
	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return fmt.Errorf("upload: create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("upload: copy file: %w", err)
	}
	return nil
}
