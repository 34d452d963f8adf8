// Package barcode looks up product details for scanned barcodes.
package barcode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"freshguard-api/internal/cache"
	"freshguard-api/internal/model"
	"freshguard-api/pkg/apierror"
)

const (
	defaultBaseURL   = "https://world.openfoodfacts.org"
	defaultTimeout   = 5 * time.Second
	defaultPerMinute = 60
	defaultCacheTTL  = 24 * time.Hour
	cacheKeyPrefix   = "barcode:"
	maxBodyBytes     = 2 << 20
)

// Config holds configuration for the lookup client.
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	PerMinute int
	UserAgent string
	CacheTTL  time.Duration
}

// Client queries Open Food Facts. Answers, including "not found", are
// memoized; transport failures are not.
type Client struct {
	http      *http.Client
	baseURL   string
	userAgent string
	timeout   time.Duration
	limiter   *rate.Limiter
	cache     cache.Cache
	cacheTTL  time.Duration
}

// NewClient creates a lookup client. c may be nil to disable memoization.
func NewClient(cfg Config, c cache.Cache) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.PerMinute <= 0 {
		cfg.PerMinute = defaultPerMinute
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = defaultCacheTTL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "FreshGuard/1.0"
	}

	burst := cfg.PerMinute / 10
	if burst < 1 {
		burst = 1
	}

	return &Client{
		http:      &http.Client{},
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		timeout:   cfg.Timeout,
		limiter:   rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.PerMinute)), burst),
		cache:     c,
		cacheTTL:  cfg.CacheTTL,
	}
}

// ValidCode reports whether code looks like an EAN/UPC/GTIN barcode.
func ValidCode(code string) bool {
	if len(code) < 6 || len(code) > 14 {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Lookup returns what is known about code. Codes that are not EAN/UPC
// digits and upstream failures both degrade to Found=false; only an empty
// code is an error.
func (c *Client) Lookup(ctx context.Context, code string) (*model.Product, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, apierror.ValidationError("Invalid barcode").
			WithDetails(apierror.FieldError{Field: "barcode", Message: "is required"})
	}
	if !ValidCode(code) {
		return &model.Product{Barcode: code}, nil
	}

	fetch := func() ([]byte, error) {
		p, err := c.fetch(ctx, code)
		if err != nil {
			return nil, err
		}
		return json.Marshal(p)
	}

	var (
		data []byte
		err  error
	)
	if c.cache != nil {
		data, err = c.cache.GetOrSet(ctx, cacheKeyPrefix+code, c.cacheTTL, fetch)
	} else {
		data, err = fetch()
	}
	if err != nil {
		slog.Warn("barcode lookup failed", "barcode", code, "error", err)
		return &model.Product{Barcode: code}, nil
	}

	var p model.Product
	if err := json.Unmarshal(data, &p); err != nil {
		slog.Warn("barcode cache entry unreadable", "barcode", code, "error", err)
		return &model.Product{Barcode: code}, nil
	}
	return &p, nil
}

type offResponse struct {
	Status  int `json:"status"`
	Product struct {
		ProductName string `json:"product_name"`
		ImageURL    string `json:"image_url"`
	} `json:"product"`
}

var errUpstream = errors.New("upstream lookup failed")

func (c *Client) fetch(ctx context.Context, code string) (*model.Product, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	endpoint := fmt.Sprintf("%s/api/v2/product/%s.json?fields=product_name,image_url", c.baseURL, url.PathEscape(code))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call upstream: %w", err)
	}
	defer resp.Body.Close()

	product := &model.Product{Barcode: code}

	if resp.StatusCode == http.StatusNotFound {
		return product, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", errUpstream, resp.StatusCode)
	}

	var body offResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode upstream response: %w", err)
	}

	if body.Status != 1 {
		return product, nil
	}

	product.Found = true
	if name := strings.TrimSpace(body.Product.ProductName); name != "" {
		product.Name = &name
	}
	if img := strings.TrimSpace(body.Product.ImageURL); img != "" {
		product.ImageURL = &img
	}
	return product, nil
}
