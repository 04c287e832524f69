package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"romix-storefront/models"
)

// ErrNotConfigured is returned when a remote endpoint has no URL
var ErrNotConfigured = errors.New("endpoint not configured")

// RemoteClientInterface defines the best-effort remote sources of catalog and stock data
type RemoteClientInterface interface {
	FetchProducts(ctx context.Context, section string) ([]models.Product, error)
	FetchVariants(ctx context.Context) ([]models.Variant, error)
	FetchDataFile(ctx context.Context, location string) ([]models.Product, error)
}

// RemoteClient fetches products and variants over HTTP, and the static catalog from disk or HTTP
type RemoteClient struct {
	httpClient  *http.Client
	productsURL string
	variantsURL string
}

// NewRemoteClient creates a new RemoteClient. Empty URLs disable the matching endpoint.
func NewRemoteClient(productsURL, variantsURL string) *RemoteClient {
	return &RemoteClient{
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		productsURL: strings.TrimSpace(productsURL),
		variantsURL: strings.TrimSpace(variantsURL),
	}
}

// Ensure RemoteClient implements RemoteClientInterface
var _ RemoteClientInterface = (*RemoteClient)(nil)

// FetchProducts fetches the remote catalog, optionally restricted to one section
func (c *RemoteClient) FetchProducts(ctx context.Context, section string) ([]models.Product, error) {
	if c.productsURL == "" {
		return nil, fmt.Errorf("products API: %w", ErrNotConfigured)
	}

	target := c.productsURL
	if section = strings.TrimSpace(section); section != "" {
		u, err := url.Parse(c.productsURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse products URL: %w", err)
		}
		q := u.Query()
		q.Set("section", section)
		u.RawQuery = q.Encode()
		target = u.String()
	}

	var list []models.Product
	if err := c.getJSON(ctx, target, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// FetchVariants fetches the remote stock snapshot
func (c *RemoteClient) FetchVariants(ctx context.Context) ([]models.Variant, error) {
	if c.variantsURL == "" {
		return nil, fmt.Errorf("variants API: %w", ErrNotConfigured)
	}

	var list []models.Variant
	if err := c.getJSON(ctx, c.variantsURL, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// FetchDataFile reads the static catalog. location is either an http(s) URL or a file path.
func (c *RemoteClient) FetchDataFile(ctx context.Context, location string) ([]models.Product, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, fmt.Errorf("data file: %w", ErrNotConfigured)
	}

	var list []models.Product
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		if err := c.getJSON(ctx, location, &list); err != nil {
			return nil, err
		}
		return list, nil
	}

	data, err := os.ReadFile(location)
	if err != nil {
		return nil, fmt.Errorf("failed to read data file %s: %w", location, err)
	}
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("failed to parse data file %s: %w", location, err)
	}
	return list, nil
}

func (c *RemoteClient) getJSON(ctx context.Context, target string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("failed to build request for %s: %w", target, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-store")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("failed to fetch %s: HTTP %d", target, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", target, err)
	}
	return nil
}
