package uploads

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/SahilDudhatWork/Synthia.AI/internal/models"

	"github.com/google/uuid"
)

const (
	downloadTimeout  = 30 * time.Second
	maxDownloadBytes = 10 * 1024 * 1024
)

var ErrDownload = errors.New("failed to download image")

type RemoteRequest struct {
	ImageURL    string
	UserID      uuid.UUID
	WorkspaceID uuid.UUID
	ChatID      *uuid.UUID
}

type downloader struct {
	client *http.Client
}

func newDownloader(client *http.Client) *downloader {
	if client == nil {
		client = &http.Client{Timeout: downloadTimeout}
	}
	return &downloader{client: client}
}

// WithHTTPClient swaps the client used to fetch remote images.
func (p *Pipeline) WithHTTPClient(client *http.Client) *Pipeline {
	p.downloader = newDownloader(client)
	return p
}

func (d *downloader) fetch(ctx context.Context, rawURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrDownload, err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrDownload, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("%w: unexpected status %d", ErrDownload, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrDownload, err)
	}
	if len(data) > maxDownloadBytes {
		return nil, "", fmt.Errorf("%w: image larger than %d bytes", ErrDownload, maxDownloadBytes)
	}
	return data, resp.Header.Get("Content-Type"), nil
}

// SaveRemote downloads an externally hosted image (e.g. a generated one) and
// stores it like an upload.
func (p *Pipeline) SaveRemote(ctx context.Context, req RemoteRequest) (*models.Image, error) {
	if req.ImageURL == "" || req.UserID == uuid.Nil || req.WorkspaceID == uuid.Nil {
		return nil, invalid("Missing required fields: imageUrl, userId, and workspaceId are required")
	}
	u, err := url.Parse(req.ImageURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, invalid("Invalid imageUrl format")
	}

	data, contentType, err := p.downloader.fetch(ctx, req.ImageURL)
	if err != nil {
		return nil, err
	}

	if !strings.HasPrefix(strings.ToLower(contentType), "image/") {
		return nil, invalid("URL does not point to a valid image")
	}
	ext, _ := ImageExtension(contentType)
	if ext == "" {
		ext = "png"
	}

	return p.Save(ctx, Request{
		UserID:      req.UserID,
		WorkspaceID: req.WorkspaceID,
		ChatID:      req.ChatID,
		File: File{
			Name:     fmt.Sprintf("generated-%d.%s", p.now().UnixMilli(), ext),
			Data:     data,
			MimeType: contentType,
		},
	})
}
