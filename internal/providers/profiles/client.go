package profiles

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
	"time"

	"github.com/tidwall/gjson"

	"listings/internal/paginate"
	"listings/internal/types"
)

// Client reads the upstream profile feed. Pages look like
// {"data": [...], "hasMore": true}; hasMore is optional.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	logger     *slog.Logger
}

func NewClient(logger *slog.Logger, baseURL, userAgent string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  userAgent,
		logger:     logger.With("component", "profiles-client"),
	}
}

// ListOptions narrows a page request
type ListOptions struct {
	Location string
}

// FetchPage satisfies paginate.FetchFunc for the unfiltered feed
func (c *Client) FetchPage(ctx context.Context, page, pageSize int) (paginate.Page[types.Profile], error) {
	return c.List(ctx, page, pageSize, ListOptions{})
}

// List fetches one page of profiles
func (c *Client) List(ctx context.Context, page, pageSize int, opts ListOptions) (paginate.Page[types.Profile], error) {
	u, err := url.Parse(c.baseURL + "/profiles")
	if err != nil {
		return paginate.Page[types.Profile]{}, fmt.Errorf("failed to parse base URL: %w", err)
	}

	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(pageSize))
	if opts.Location != "" {
		q.Set("location", opts.Location)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return paginate.Page[types.Profile]{}, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	c.logger.Debug("fetching profiles", "page", page, "limit", pageSize, "location", opts.Location)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("failed to fetch profiles", "page", page, "error", err)
		return paginate.Page[types.Profile]{}, fmt.Errorf("failed to fetch: %w", err)
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return paginate.Page[types.Profile]{}, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("profile API returned error",
			"status_code", resp.StatusCode,
			"page", page,
			"response_body", string(body),
		)
		return paginate.Page[types.Profile]{}, fmt.Errorf("fetch returned status %d: %s", resp.StatusCode, string(body))
	}

	return decodePage(body)
}

func decodePage(body []byte) (paginate.Page[types.Profile], error) {
	if !gjson.ValidBytes(body) {
		return paginate.Page[types.Profile]{}, fmt.Errorf("failed to decode response: invalid JSON")
	}

	result := gjson.ParseBytes(body)

	page := paginate.Page[types.Profile]{Data: make([]types.Profile, 0)}

	data := result.Get("data")
	if data.Exists() && data.Type != gjson.Null {
		if !data.IsArray() {
			return paginate.Page[types.Profile]{}, fmt.Errorf("failed to decode response: data is %s, not an array", data.Type)
		}
		if err := json.Unmarshal([]byte(data.Raw), &page.Data); err != nil {
			return paginate.Page[types.Profile]{}, fmt.Errorf("failed to decode profiles: %w", err)
		}
	}

	if hasMore := result.Get("hasMore"); hasMore.Exists() && hasMore.Type != gjson.Null {
		v := hasMore.Bool()
		page.HasMore = &v
	}

	return page, nil
}
