package rajaongkir

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	pkgerrors "github.com/akaynusantara/marketplace-backend/pkg/errors"
)

const (
	defaultBaseURL              = "https://api.rajaongkir.com/starter"
	defaultTimeout              = 5 * time.Second
	responseBodyReadLimit int64 = 1024
)

var errAPIKeyRequired = errors.New("rajaongkir api key is required")

// Client wraps the RajaOngkir cost API used for live shipping quotes.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the configured API base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// WithTimeout overrides the per-request timeout on the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 && c.httpClient != nil {
			c.httpClient.Timeout = timeout
		}
	}
}

// NewClient builds the RajaOngkir client given an API key.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	trimmedKey := strings.TrimSpace(apiKey)
	if trimmedKey == "" {
		return nil, errAPIKeyRequired
	}

	client := &Client{
		apiKey:     trimmedKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: defaultTimeout}
	}
	if client.baseURL == "" {
		client.baseURL = defaultBaseURL
	}

	return client, nil
}

// CostRequest describes one origin/destination/weight rate lookup.
type CostRequest struct {
	OriginCityID      string
	DestinationCityID string
	WeightGrams       int
	Courier           string
}

// RateOption is one courier service returned by the cost API.
type RateOption struct {
	Service     string
	Description string
	CostIDR     int64
	ETD         string
}

// Cost queries the rate API for the given shipment. It returns every service
// the courier offers on the lane; callers pick the matching service.
func (c *Client) Cost(ctx context.Context, req CostRequest) ([]RateOption, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "rajaongkir client not configured")
	}
	if strings.TrimSpace(req.OriginCityID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "origin city is required")
	}
	if strings.TrimSpace(req.DestinationCityID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "destination city is required")
	}
	if req.WeightGrams <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "weight must be positive")
	}
	if strings.TrimSpace(req.Courier) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "courier code is required")
	}

	form := url.Values{}
	form.Set("origin", req.OriginCityID)
	form.Set("destination", req.DestinationCityID)
	form.Set("weight", strconv.Itoa(req.WeightGrams))
	form.Set("courier", strings.ToLower(req.Courier))

	endpoint := strings.TrimRight(c.baseURL, "/") + "/cost"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build cost request")
	}

	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute cost request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "cost request failed")
	}

	var apiResp struct {
		RajaOngkir struct {
			Status struct {
				Code        int    `json:"code"`
				Description string `json:"description"`
			} `json:"status"`
			Results []struct {
				Code  string `json:"code"`
				Costs []struct {
					Service     string `json:"service"`
					Description string `json:"description"`
					Cost        []struct {
						Value int64  `json:"value"`
						ETD   string `json:"etd"`
					} `json:"cost"`
				} `json:"costs"`
			} `json:"results"`
		} `json:"rajaongkir"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode cost response")
	}

	if code := apiResp.RajaOngkir.Status.Code; code != http.StatusOK {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("api status %d: %s", code, apiResp.RajaOngkir.Status.Description), "cost lookup rejected")
	}

	options := make([]RateOption, 0)
	for _, result := range apiResp.RajaOngkir.Results {
		for _, cost := range result.Costs {
			if len(cost.Cost) == 0 {
				continue
			}
			options = append(options, RateOption{
				Service:     strings.ToUpper(strings.TrimSpace(cost.Service)),
				Description: cost.Description,
				CostIDR:     cost.Cost[0].Value,
				ETD:         cost.Cost[0].ETD,
			})
		}
	}
	return options, nil
}
