package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fjod/go_cart/storefront-service/internal/domain"
)

func TestFileSource_JSON(t *testing.T) {
	products, err := NewFileSource("products", "testdata/products.json").Fetch(context.Background())
	require.NoError(t, err)

	require.Len(t, products, 3)
	assert.Equal(t, domain.ProductID("1"), products[0].ID)
	assert.Equal(t, "Linen shirt", products[0].Name)
	assert.Equal(t, float64(500), products[0].Price)
}

func TestFileSource_MissingFile(t *testing.T) {
	_, err := NewFileSource("products", "testdata/nope.json").Fetch(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFileSource_ShapeMismatch(t *testing.T) {
	_, err := NewFileSource("products", "testdata/invalid_shape.json").Fetch(context.Background())
	assert.ErrorContains(t, err, "decode products")
}

func TestFileSource_NotAnArray(t *testing.T) {
	dir := t.TempDir()
	for name, content := range map[string]string{
		"null.json":  "null",
		"empty.yaml": "",
	} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		_, err := NewFileSource("products", path).Fetch(context.Background())
		assert.ErrorIs(t, err, errNotAnArray, name)
	}
}

func TestFileSource_EmptyArrayIsValid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.json")
	require.NoError(t, os.WriteFile(path, []byte("[]"), 0o600))

	products, err := NewFileSource("products", path).Fetch(context.Background())
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestFileSource_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewFileSource("products", "testdata/products.json").Fetch(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoad_DuplicateFromFile(t *testing.T) {
	sut := NewLoader(
		NewFileSource("products", "testdata/duplicate.json"),
		NewFileSource("exclusive", "testdata/exclusive.yaml"),
		nil,
	)

	_, err := sut.Load(context.Background())
	assert.ErrorIs(t, err, ErrDuplicateID)
}

func TestHTTPSource_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/exclusive.json", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"ex-1","name":"Jacket","price":4999}]`))
	}))
	defer srv.Close()

	sut := NewHTTPSource("exclusive", srv.URL+"/exclusive.json", srv.Client(), zap.NewNop())
	products, err := sut.Fetch(context.Background())
	require.NoError(t, err)

	require.Len(t, products, 1)
	assert.Equal(t, domain.ProductID("ex-1"), products[0].ID)
}

func TestHTTPSource_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewHTTPSource("products", srv.URL, srv.Client(), nil).Fetch(context.Background())
	assert.ErrorContains(t, err, "unexpected status 404")
}

func TestHTTPSource_BreakerOpensAfterRepeatedFailures(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	sut := NewHTTPSource("products", srv.URL, srv.Client(), nil)
	for i := 0; i < 5; i++ {
		_, _ = sut.Fetch(context.Background())
	}

	_, err := sut.Fetch(context.Background())
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, int32(3), hits.Load())
}

func TestNewSource_PicksByLocation(t *testing.T) {
	assert.IsType(t, &HTTPSource{}, NewSource("products", "https://cdn.example.com/products.json", nil, nil))
	assert.IsType(t, &HTTPSource{}, NewSource("products", "http://localhost/products.json", nil, nil))
	assert.IsType(t, &FileSource{}, NewSource("products", "./data/products.json", nil, nil))
}
