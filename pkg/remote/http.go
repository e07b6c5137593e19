package remote

import (
	"context"
	"strings"
	"time"

	"github.com/arthur-debert/dotback/pkg/errors"
	"github.com/arthur-debert/dotback/pkg/logging"
	"github.com/go-resty/resty/v2"
)

type uploadRequest struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

type downloadRequest struct {
	Path string `json:"path"`
}

// HTTPRemote talks to an upload/download receiver over HTTP
type HTTPRemote struct {
	client  *resty.Client
	baseURL string
}

// NewHTTP creates a client for host. A host without a scheme gets http://.
func NewHTTP(host string, timeout time.Duration) *HTTPRemote {
	baseURL := host
	if !strings.Contains(baseURL, "://") {
		baseURL = "http://" + baseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")

	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetTimeout(timeout)
	client.SetHeader("Accept", "*/*")
	client.SetContentLength(true)

	return &HTTPRemote{client: client, baseURL: baseURL}
}

// Upload posts {"path","content"} to /upload; any 2xx is success
func (h *HTTPRemote) Upload(ctx context.Context, path, content string) error {
	logger := logging.GetLogger("remote.http")

	resp, err := h.client.R().
		SetContext(ctx).
		SetBody(uploadRequest{Path: path, Content: content}).
		Post("/upload")
	if err != nil {
		return classify(err, "upload", path)
	}
	if !resp.IsSuccess() {
		return errors.Newf(errors.ErrRemote, "upload %s: unexpected status %d", path, resp.StatusCode()).
			WithDetail("status", resp.StatusCode()).
			WithDetail("body", resp.String())
	}

	logger.Debug().Str("path", path).Int("bytes", len(content)).Msg("Uploaded")
	return nil
}

// Download posts {"path"} to /download and returns the raw response body
func (h *HTTPRemote) Download(ctx context.Context, path string) (string, error) {
	logger := logging.GetLogger("remote.http")

	resp, err := h.client.R().
		SetContext(ctx).
		SetBody(downloadRequest{Path: path}).
		Post("/download")
	if err != nil {
		return "", classify(err, "download", path)
	}
	if !resp.IsSuccess() {
		return "", errors.Newf(errors.ErrRemote, "download %s: unexpected status %d", path, resp.StatusCode()).
			WithDetail("status", resp.StatusCode())
	}

	logger.Debug().Str("path", path).Int("bytes", len(resp.Body())).Msg("Downloaded")
	return string(resp.Body()), nil
}

// Close is a no-op; the HTTP client holds nothing per run
func (h *HTTPRemote) Close() error { return nil }

func (h *HTTPRemote) String() string { return h.baseURL }
