package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/fjod/go_cart/storefront-service/internal/domain"
	"github.com/fjod/go_cart/storefront-service/pkg/circuitbreaker"
)

// maxDocumentSize bounds how much of a catalog document is read.
const maxDocumentSize = 10 << 20

var errNotAnArray = errors.New("decode products: document is not a product array")

// Source yields one product collection.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]domain.Product, error)
}

// NewSource picks an HTTPSource for http(s) locations and a FileSource otherwise.
func NewSource(name, location string, client *http.Client, logger *zap.Logger) Source {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return NewHTTPSource(name, location, client, logger)
	}
	return NewFileSource(name, location)
}

// FileSource reads a JSON or YAML document from disk. The format follows the
// file extension; anything other than .yaml/.yml is treated as JSON.
type FileSource struct {
	name string
	path string
}

func NewFileSource(name, path string) *FileSource {
	return &FileSource{name: name, path: path}
}

func (s *FileSource) Name() string { return s.name }

func (s *FileSource) Fetch(ctx context.Context) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	switch strings.ToLower(filepath.Ext(s.path)) {
	case ".yaml", ".yml":
		return decodeYAML(data)
	default:
		return decodeJSON(data)
	}
}

// HTTPSource fetches a JSON document through a circuit breaker.
type HTTPSource struct {
	name    string
	url     string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[[]byte]
}

func NewHTTPSource(name, url string, client *http.Client, logger *zap.Logger) *HTTPSource {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPSource{
		name:    name,
		url:     url,
		client:  client,
		breaker: circuitbreaker.New[[]byte](circuitbreaker.Settings{Name: "catalog-" + name}, logger),
	}
}

func (s *HTTPSource) Name() string { return s.name }

func (s *HTTPSource) Fetch(ctx context.Context) ([]domain.Product, error) {
	data, err := s.breaker.Execute(func() ([]byte, error) {
		return s.get(ctx)
	})
	if err != nil {
		return nil, err
	}
	return decodeJSON(data)
}

func (s *HTTPSource) get(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", s.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("get %s: unexpected status %d", s.url, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return nil, fmt.Errorf("read body of %s: %w", s.url, err)
	}
	return data, nil
}

func decodeJSON(data []byte) ([]domain.Product, error) {
	var products []domain.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	if products == nil {
		return nil, errNotAnArray
	}
	return products, nil
}

// decodeYAML converts the document to JSON so both formats share the
// Product decoding rules, including numeric-or-string ids.
func decodeYAML(data []byte) ([]domain.Product, error) {
	var raw []map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	converted, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return decodeJSON(converted)
}
