package renderer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// ErrUnavailable marks the renderer collaborator as absent or unreachable.
// Callers degrade to the markdown artifact alone; assembly still succeeds.
var ErrUnavailable = errors.New("document renderer unavailable")

// Renderer converts markdown into a paginated binary artifact (PDF).
type Renderer interface {
	Render(ctx context.Context, markdown string) ([]byte, error)
}

// HTTPRenderer posts markdown to a Gotenberg-compatible conversion service.
type HTTPRenderer struct {
	BaseURL string
	Client  *http.Client
}

var _ Renderer = &HTTPRenderer{}

func NewHTTPRenderer(baseURL string) *HTTPRenderer {
	return &HTTPRenderer{
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

func (r *HTTPRenderer) Render(ctx context.Context, markdown string) ([]byte, error) {
	if r.BaseURL == "" {
		return nil, ErrUnavailable
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("files", "document.md")
	if err != nil {
		return nil, fmt.Errorf("build form: %w", err)
	}
	if _, err := part.Write([]byte(markdown)); err != nil {
		return nil, fmt.Errorf("write form: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close form: %w", err)
	}

	url := r.BaseURL + "/forms/chromium/convert/markdown"
	req, err := http.NewRequestWithContext(ctx, "POST", url, &body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := r.Client.Do(req)
	if err != nil {
		// Network failure counts as unavailable, not as an assembly error
		return nil, ErrUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ErrUnavailable
	}

	return io.ReadAll(resp.Body)
}
