package imagesearch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"inventory_backend/internal/feature/inventory/domain"
	"inventory_backend/internal/feature/inventory/usecase"
	"inventory_backend/internal/shared/ratelimiter"
)

// searchResponse は検索APIのレスポンスボディです。
type searchResponse struct {
	Status  string `json:"status,omitempty"`
	Message string `json:"message,omitempty"`
	Results []struct {
		ID       string `json:"id"`
		ImageURL string `json:"image_url"`
	} `json:"results"`
}

// Client は画像検索APIからソースURLの一覧取得と画像のダウンロードを行います。
type Client struct {
	cfg     Config
	client  *http.Client
	limiter ratelimiter.RateLimiterInterface
}

// ClientがImageFetcherを実装していることをコンパイル時に検証します。
var _ usecase.ImageFetcher = (*Client)(nil)

// NewClient は指定された設定とHTTPクライアントでClientの新しいインスタンスを生成します。
// 必須の設定が欠けている場合はErrConfigurationを返します。limiterはnil可です。
func NewClient(cfg Config, client *http.Client, limiter ratelimiter.RateLimiterInterface) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{cfg: cfg, client: client, limiter: limiter}, nil
}

// SearchImageURLs はクエリ（環境タイプなど）に一致する画像URLの一覧を返します。
func (c *Client) SearchImageURLs(ctx context.Context, query string, limit int) ([]string, error) {
	c.wait()

	q := url.Values{}
	q.Set("query", query)
	q.Set("per_page", strconv.Itoa(limit))
	q.Set("api_key", c.cfg.APIKey)

	u := fmt.Sprintf("%s/search?%s", c.cfg.BaseURL, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrAcquisition, err)
	}

	res, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: search request failed: %v", domain.ErrAcquisition, err)
	}
	defer closeBody(res.Body)

	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: search http %d", domain.ErrAcquisition, res.StatusCode)
	}

	var body searchResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode search response: %v", domain.ErrAcquisition, err)
	}
	if body.Status == "error" {
		return nil, fmt.Errorf("%w: search api: %s", domain.ErrAcquisition, body.Message)
	}

	urls := make([]string, 0, len(body.Results))
	for _, r := range body.Results {
		if r.ImageURL == "" {
			continue
		}
		urls = append(urls, r.ImageURL)
	}
	return urls, nil
}

// Fetch はソースURLから画像バイト列をダウンロードします。
func (c *Client) Fetch(ctx context.Context, source string) ([]byte, error) {
	c.wait()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrAcquisition, err)
	}

	res, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: download failed: %v", domain.ErrAcquisition, err)
	}
	defer closeBody(res.Body)

	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: download http %d for %s", domain.ErrAcquisition, res.StatusCode, source)
	}

	// 上限+1バイトで読み、超過を検知する
	data, err := io.ReadAll(io.LimitReader(res.Body, usecase.MaxImageSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read image body: %v", domain.ErrAcquisition, err)
	}
	if len(data) > usecase.MaxImageSize {
		return nil, fmt.Errorf("%w: image exceeds %d bytes", domain.ErrAcquisition, usecase.MaxImageSize)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty image body for %s", domain.ErrAcquisition, source)
	}
	return data, nil
}

func (c *Client) wait() {
	if c.limiter != nil {
		c.limiter.WaitIfNeeded()
	}
}

func closeBody(body io.ReadCloser) {
	if err := body.Close(); err != nil {
		slog.Warn("failed to close response body", "error", err)
	}
}
