package cdn

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
)

var ErrNoSecureURL = errors.New("cdn response carried no secure_url")

// CloudinaryClient uploads product images with an unsigned upload preset.
type CloudinaryClient struct {
	uploadURL  string
	preset     string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[string]
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func NewCloudinaryClient(cloudName, preset string, timeout time.Duration) *CloudinaryClient {
	return NewClient(fmt.Sprintf("https://api.cloudinary.com/v1_1/%s/image/upload", cloudName), preset, timeout)
}

// NewClient points the uploader at an arbitrary upload endpoint.
func NewClient(uploadURL, preset string, timeout time.Duration) *CloudinaryClient {
	return &CloudinaryClient{
		uploadURL:  uploadURL,
		preset:     preset,
		httpClient: &http.Client{Timeout: timeout},
		breaker: gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
			Name:        "cdn-upload",
			MaxRequests: 1,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(c gobreaker.Counts) bool {
				return c.ConsecutiveFailures >= 3
			},
		}),
	}
}

func (c *CloudinaryClient) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	if err := mw.WriteField("upload_preset", c.preset); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	return c.breaker.Execute(func() (string, error) {
		return c.post(ctx, mw.FormDataContentType(), body.Bytes())
	})
}

func (c *CloudinaryClient) post(ctx context.Context, contentType string, payload []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadURL, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var out uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil && resp.StatusCode == http.StatusOK {
		return "", fmt.Errorf("decode cdn response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if out.Error != nil && out.Error.Message != "" {
			return "", fmt.Errorf("cdn returned status %d: %s", resp.StatusCode, out.Error.Message)
		}
		return "", fmt.Errorf("cdn returned status %d", resp.StatusCode)
	}
	if out.SecureURL == "" {
		return "", ErrNoSecureURL
	}
	return out.SecureURL, nil
}
