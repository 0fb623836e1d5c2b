package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/utafrali/shopease/internal/domain"
	apperrors "github.com/utafrali/shopease/pkg/errors"
	"github.com/utafrali/shopease/pkg/httpclient"
	"github.com/utafrali/shopease/pkg/tracing"
)

// maxBody caps decoded response bodies.
const maxBody = 8 << 20

// Client talks to a Fake Store compatible catalog API. Every call is sent
// once; there is no retry and no caching.
type Client struct {
	baseURL string
	http    *httpclient.CircuitBreakerClient
	logger  *slog.Logger
}

// NewClient creates a catalog client rooted at baseURL.
func NewClient(baseURL string, hc *httpclient.CircuitBreakerClient, logger *slog.Logger) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid catalog base url %q", baseURL)
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    hc,
		logger:  logger,
	}, nil
}

// ListProducts returns every product in the catalog.
func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if err := c.getJSON(ctx, "list_products", "/products", &products); err != nil {
		return nil, err
	}
	return products, nil
}

// ListProductsByCategory returns the products in category.
func (c *Client) ListProductsByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	var products []domain.Product
	path := "/products/category/" + url.PathEscape(category)
	if err := c.getJSON(ctx, "list_products_by_category", path, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// GetProduct returns one product. Unknown ids yield a FetchError that also
// matches apperrors.ErrNotFound, whether the upstream answers 404 or an empty
// 200 body.
func (c *Client) GetProduct(ctx context.Context, id int) (domain.Product, error) {
	const op = "get_product"

	var p *domain.Product
	err := c.getJSON(ctx, op, "/products/"+strconv.Itoa(id), &p)
	if err != nil {
		var fe *FetchError
		if errors.As(err, &fe) && fe.StatusCode == http.StatusNotFound {
			fe.Err = apperrors.NotFound("product", strconv.Itoa(id))
		}
		return domain.Product{}, err
	}
	if p == nil || p.ID == 0 {
		return domain.Product{}, &FetchError{Op: op, StatusCode: http.StatusOK, Err: apperrors.NotFound("product", strconv.Itoa(id))}
	}
	return *p, nil
}

// ListCategories returns the category names.
func (c *Client) ListCategories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := c.getJSON(ctx, "list_categories", "/products/categories", &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// Login exchanges credentials for a bearer token. A 4xx answer is reported
// as apperrors.ErrAuthenticationFailed; transport failures, 5xx answers and
// undecodable bodies are FetchErrors.
func (c *Client) Login(ctx context.Context, creds domain.Credentials) (token string, err error) {
	const op = "login"
	ctx, span := tracing.Start(ctx, "catalog."+op)
	defer func() { tracing.End(span, err) }()

	body, err := json.Marshal(creds)
	if err != nil {
		return "", fmt.Errorf("marshal credentials: %w", err)
	}

	resp, err := c.http.Post(ctx, c.baseURL+"/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		return "", c.fetchError(op, err)
	}
	if httpclient.IsClientError(resp.StatusCode) {
		statusErr := httpclient.NewStatusError(resp)
		c.logger.InfoContext(ctx, "catalog rejected login",
			slog.String("username", creds.Username),
			slog.Int("status", statusErr.StatusCode),
		)
		return "", fmt.Errorf("%w: %w: %w", apperrors.ErrAuthenticationFailed, errRejected, statusErr)
	}
	if !httpclient.IsSuccess(resp.StatusCode) {
		return "", c.fetchError(op, httpclient.NewStatusError(resp))
	}
	defer func() { _ = resp.Body.Close() }()

	var out struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(&out); err != nil {
		return "", &FetchError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	if strings.TrimSpace(out.Token) == "" {
		return "", fmt.Errorf("%w: %w", apperrors.ErrAuthenticationFailed, errNoToken)
	}
	return out.Token, nil
}

// Available reports an error while the circuit breaker is open.
func (c *Client) Available(context.Context) error {
	if c.http.Open() {
		return &FetchError{Op: "health", Err: httpclient.ErrCircuitOpen}
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, op, path string, dst any) (err error) {
	ctx, span := tracing.Start(ctx, "catalog."+op, attribute.String("catalog.path", path))
	defer func() { tracing.End(span, err) }()

	resp, err := c.http.Get(ctx, c.baseURL+path)
	if err != nil {
		return c.fetchError(op, err)
	}
	if !httpclient.IsSuccess(resp.StatusCode) {
		return c.fetchError(op, httpclient.NewStatusError(resp))
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return &FetchError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		// An empty 2xx body decodes as JSON null.
		raw = []byte("null")
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return &FetchError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode body: %w", err)}
	}
	return nil
}

func (c *Client) fetchError(op string, err error) *FetchError {
	fe := &FetchError{Op: op, Err: err}
	var statusErr *httpclient.StatusError
	if errors.As(err, &statusErr) {
		fe.StatusCode = statusErr.StatusCode
	}
	c.logger.Warn("catalog request failed",
		slog.String("op", op),
		slog.Int("status", fe.StatusCode),
		slog.String("error", err.Error()),
	)
	return fe
}
