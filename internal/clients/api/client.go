package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/maxaizer/opportunity-radar/internal/domain/models"
	"github.com/samber/lo"
	"golang.org/x/time/rate"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type Client struct {
	baseURL     string
	token       string
	httpClient  HTTPClient
	rateLimiter *rate.Limiter
}

func NewClient(baseURL string) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: &http.Client{}}
}

func (c *Client) SetHTTPClient(client HTTPClient) {
	c.httpClient = client
}

func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) SetRateLimit(maxRequestsPerSecond float32) {
	if maxRequestsPerSecond <= 0 {
		c.rateLimiter = nil
		return
	}
	c.rateLimiter = rate.NewLimiter(rate.Limit(maxRequestsPerSecond), 1)
}

func (c *Client) ListOpportunities(ctx context.Context, query models.ListQuery) ([]models.Opportunity, error) {

	params := url.Values{}
	if query.Limit > 0 {
		params.Set("limit", strconv.Itoa(query.Limit))
	}
	if query.Offset > 0 {
		params.Set("offset", strconv.Itoa(query.Offset))
	}

	apiURL := c.baseURL + "/opportunities"
	if len(params) > 0 {
		apiURL += "?" + params.Encode()
	}

	body, err := c.sendRequest(ctx, http.MethodGet, apiURL)
	if err != nil {
		return nil, err
	}

	items, err := decodeList[opportunity](body)
	if err != nil {
		return nil, err
	}

	return lo.Map(items, func(item opportunity, _ int) models.Opportunity { return item.toModel() }), nil
}

func (c *Client) ListKeywordSearches(ctx context.Context) ([]models.KeywordSearch, error) {

	body, err := c.sendRequest(ctx, http.MethodGet, c.baseURL+"/keyword-searches")
	if err != nil {
		return nil, err
	}

	items, err := decodeList[keywordSearch](body)
	if err != nil {
		return nil, err
	}

	return lo.Map(items, func(item keywordSearch, _ int) models.KeywordSearch { return item.toModel() }), nil
}

type wrappedList[T any] struct {
	Items []T `json:"items"`
	Data  []T `json:"data"`
}

// decodeList accepts both a bare JSON array and an object wrapping it in "items" or "data".
func decodeList[T any](body []byte) ([]T, error) {

	trimmed := strings.TrimSpace(string(body))
	if strings.HasPrefix(trimmed, "[") {
		var items []T
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, fmt.Errorf("error decoding JSON response: %v", err)
		}
		return items, nil
	}

	var wrapped wrappedList[T]
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return nil, fmt.Errorf("error decoding JSON response: %v", err)
	}
	if wrapped.Items != nil {
		return wrapped.Items, nil
	}
	if wrapped.Data != nil {
		return wrapped.Data, nil
	}
	return []T{}, nil
}

func (c *Client) sendRequest(ctx context.Context, method string, url string) ([]byte, error) {

	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %v", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error sending request: %w", err)
	}
	defer resp.Body.Close()

	return c.handleResponse(resp)
}

func (c *Client) handleResponse(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response body: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("request failed with status %v, body: %v", resp.StatusCode, string(body))
	}

	return body, nil
}
