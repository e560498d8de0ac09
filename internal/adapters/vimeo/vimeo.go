package vimeo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/tjanuki/storage-manager/internal/config"
	"github.com/tjanuki/storage-manager/internal/core/domain"
	"github.com/tjanuki/storage-manager/internal/core/port"

	"golang.org/x/oauth2"
)

const (
	acceptHeader = "application/vnd.vimeo.*+json;version=3.4"
	listFields   = "uri,name,description,duration,created_time,modified_time,download,files,size"
	untitled     = "Untitled"
)

// Client lists the authenticated account's videos
type Client struct {
	baseURL *url.URL
	perPage int
	http    *http.Client
	logger  *slog.Logger
}

// NewClient creates a Client that implements port.VideoSource
func NewClient(cfg config.VimeoConfig, logger *slog.Logger) (*Client, error) {
	if cfg.AccessToken == "" {
		return nil, fmt.Errorf("%w: vimeo access token", domain.ErrMissingField)
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("error parsing vimeo base url: %w", err)
	}

	httpClient := oauth2.NewClient(context.Background(), oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: cfg.AccessToken,
		TokenType:   "Bearer",
	}))
	httpClient.Timeout = cfg.RequestTimeout

	perPage := cfg.PerPage
	if perPage <= 0 || perPage > 100 {
		perPage = 100
	}

	return &Client{baseURL: base, perPage: perPage, http: httpClient, logger: logger}, nil
}

var _ port.VideoSource = (*Client)(nil)

// ListVideos fetches one page, pages start at 1
func (c *Client) ListVideos(ctx context.Context, page int) ([]domain.ImportSource, bool, error) {
	if page < 1 {
		page = 1
	}

	endpoint := c.baseURL.JoinPath("me", "videos")
	q := endpoint.Query()
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(c.perPage))
	q.Set("fields", listFields)
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %w", domain.ErrRemoteSource, err)
	}
	req.Header.Set("Accept", acceptHeader)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %w", domain.ErrRemoteSource, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Error("vimeo list failed", "status", resp.StatusCode, "page", page, "body", string(body))
		return nil, false, fmt.Errorf("%w: status %d", domain.ErrRemoteSource, resp.StatusCode)
	}

	var payload listResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, false, fmt.Errorf("%w: decoding response: %w", domain.ErrRemoteSource, err)
	}

	sources := make([]domain.ImportSource, 0, len(payload.Data))
	for _, v := range payload.Data {
		sources = append(sources, v.toDomain())
	}
	return sources, payload.Paging.Next != nil && *payload.Paging.Next != "", nil
}

type listResponse struct {
	Total  int        `json:"total"`
	Data   []apiVideo `json:"data"`
	Paging struct {
		Next *string `json:"next"`
	} `json:"paging"`
}

type apiLink struct {
	Quality string `json:"quality"`
	Link    string `json:"link"`
	Size    int64  `json:"size"`
}

type apiVideo struct {
	URI          string    `json:"uri"`
	Name         string    `json:"name"`
	Description  *string   `json:"description"`
	Duration     *int      `json:"duration"`
	CreatedTime  string    `json:"created_time"`
	ModifiedTime string    `json:"modified_time"`
	Download     []apiLink `json:"download"`
	Files        []apiLink `json:"files"`
}

func (v apiVideo) toDomain() domain.ImportSource {
	title := strings.TrimSpace(v.Name)
	if title == "" {
		title = untitled
	}

	src := domain.ImportSource{
		System:       domain.SourceVimeo,
		SourceID:     strings.TrimPrefix(v.URI, "/videos/"),
		Title:        title,
		Duration:     v.Duration,
		CreatedTime:  v.CreatedTime,
		ModifiedTime: v.ModifiedTime,
	}
	if v.Description != nil {
		src.Description = *v.Description
	}

	// download renditions are only present on plans that allow it, files is the fallback
	links := v.Download
	if len(links) == 0 {
		links = v.Files
	}
	for _, l := range links {
		if l.Link == "" {
			continue
		}
		src.Links = append(src.Links, domain.DownloadLink{URL: l.Link, Quality: l.Quality, Size: l.Size})
	}
	return src
}
