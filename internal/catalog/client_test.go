package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/shopease/internal/domain"
	apperrors "github.com/utafrali/shopease/pkg/errors"
	"github.com/utafrali/shopease/pkg/httpclient"
)

const productsJSON = `[
 {"id":1,"title":"Fjallraven - Foldsack No. 1 Backpack","price":109.95,"category":"men's clothing","image":"https://img/1.jpg","rating":{"rate":3.9,"count":120}},
 {"id":5,"title":"John Hardy Women's Legends Naga","price":695,"category":"jewelery","image":"https://img/5.jpg","rating":{"rate":4.6,"count":400}}
]`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cbCfg := httpclient.DefaultCircuitBreakerConfig("catalog-test-" + t.Name())
	hc := httpclient.NewCircuitBreakerClient(httpclient.New(httpclient.Config{Timeout: 2 * time.Second, MaxConnsPerHost: 4}), cbCfg, logger)

	c, err := NewClient(srv.URL+"/", hc, logger)
	require.NoError(t, err)
	return c
}

func TestNewClient_InvalidBaseURL(t *testing.T) {
	_, err := NewClient("not a url", nil, nil)
	assert.Error(t, err)
}

func TestListProducts(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		_, _ = io.WriteString(w, productsJSON)
	})

	products, err := c.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "109.95", products[0].Price.String())
	assert.Equal(t, 400, products[1].Rating.Count)
}

func TestListProductsByCategory_EscapesPath(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/category/men's clothing", r.URL.Path)
		assert.Equal(t, "/products/category/men%27s%20clothing", r.URL.EscapedPath())
		_, _ = io.WriteString(w, productsJSON)
	})

	_, err := c.ListProductsByCategory(context.Background(), "men's clothing")
	require.NoError(t, err)
}

func TestListCategories(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/categories", r.URL.Path)
		_, _ = io.WriteString(w, `["electronics","jewelery","men's clothing","women's clothing"]`)
	})

	categories, err := c.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Len(t, categories, 4)
}

func TestGetProduct(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/5", r.URL.Path)
		_, _ = io.WriteString(w, `{"id":5,"title":"Naga","price":695}`)
	})

	p, err := c.GetProduct(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, 5, p.ID)
}

func TestGetProduct_UnknownID(t *testing.T) {
	bodies := map[string]func(w http.ResponseWriter){
		"empty 200": func(w http.ResponseWriter) {},
		"null 200":  func(w http.ResponseWriter) { _, _ = io.WriteString(w, "null") },
		"404":       func(w http.ResponseWriter) { http.Error(w, "not found", http.StatusNotFound) },
	}
	for name, write := range bodies {
		t.Run(name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) { write(w) })

			_, err := c.GetProduct(context.Background(), 999)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrNotFound)
			assert.ErrorIs(t, err, apperrors.ErrFetchFailed)
			assert.Equal(t, http.StatusNotFound, apperrors.HTTPStatus(err))
		})
	}
}

func TestReadFailuresAreFetchErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusServiceUnavailable, "down"},
		{"client error", http.StatusBadRequest, "bad"},
		{"garbage body", http.StatusOK, "{not json"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			_, err := c.ListProducts(context.Background())

			var fe *FetchError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, "list_products", fe.Op)
			assert.Equal(t, tt.status, fe.StatusCode)
			assert.ErrorIs(t, err, apperrors.ErrFetchFailed)
			assert.Equal(t, http.StatusBadGateway, apperrors.HTTPStatus(err))
		})
	}
}

func TestReadFailure_Transport(t *testing.T) {
	c := newTestClient(t, func(http.ResponseWriter, *http.Request) {})
	c.baseURL = "http://127.0.0.1:1"

	_, err := c.ListCategories(context.Background())

	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Zero(t, fe.StatusCode)
}

func TestNoRetries(t *testing.T) {
	calls := 0
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.ListProducts(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestLogin_Success(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/login", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var creds domain.Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "mor_2314", creds.Username)
		assert.Equal(t, "83r5^_", creds.Password)

		_, _ = io.WriteString(w, `{"token":"eyJhbGciOiJIUzI1NiJ9.e30.sig"}`)
	})

	token, err := c.Login(context.Background(), domain.Credentials{Username: "mor_2314", Password: "83r5^_"})
	require.NoError(t, err)
	assert.Equal(t, "eyJhbGciOiJIUzI1NiJ9.e30.sig", token)
}

func TestLogin_Rejected(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "username or password is incorrect", http.StatusUnauthorized)
	})

	_, err := c.Login(context.Background(), domain.Credentials{Username: "x", Password: "y"})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrAuthenticationFailed)
	assert.False(t, errors.Is(err, apperrors.ErrFetchFailed))

	var statusErr *httpclient.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
}

func TestLogin_EmptyToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"token":""}`)
	})

	_, err := c.Login(context.Background(), domain.Credentials{Username: "x", Password: "y"})
	assert.ErrorIs(t, err, apperrors.ErrAuthenticationFailed)
}

func TestLogin_ServerErrorIsFetchError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := c.Login(context.Background(), domain.Credentials{Username: "x", Password: "y"})

	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "login", fe.Op)
	assert.Equal(t, http.StatusBadGateway, fe.StatusCode)
}

func TestAvailable_OpenBreaker(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	require.NoError(t, c.Available(context.Background()))

	for i := 0; i < 10; i++ {
		_, _ = c.ListProducts(context.Background())
	}

	err := c.Available(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, httpclient.ErrCircuitOpen)

	_, err = c.ListProducts(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrFetchFailed)
	assert.ErrorIs(t, err, httpclient.ErrCircuitOpen)
}
