package products

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/gentlecorp/inventory-service/pkg/config"
	pkgerrors "github.com/gentlecorp/inventory-service/pkg/errors"
)

// ProductInfo is the slice of the catalog record this service cares about.
type ProductInfo struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Brand string    `json:"brand"`
}

// Lookup resolves external product identities. The catalog service is
// treated as a remote, possibly-unavailable collaborator and is never
// mutated from here.
type Lookup interface {
	GetByID(ctx context.Context, productID uuid.UUID) (*ProductInfo, error)
}

// Client is the HTTP implementation of Lookup against the product catalog.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a catalog client from config.
func NewClient(cfg config.ProductConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: cfg.Timeout},
	}
}

// GetByID fetches the product's display identity. A 404 from the catalog
// surfaces as a typed not-found; any other failure is a dependency error.
func (c *Client) GetByID(ctx context.Context, productID uuid.UUID) (*ProductInfo, error) {
	url := fmt.Sprintf("%s/product/%s", c.baseURL, productID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build product request")
	}
	if token := BearerFromContext(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "product service unreachable")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found").
			WithDetails(map[string]any{"product_id": productID.String()})
	case resp.StatusCode >= 400:
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "product service error").
			WithDetails(map[string]any{"status": resp.StatusCode})
	}

	var info ProductInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode product response")
	}
	return &info, nil
}

type bearerKey struct{}

// WithBearer stores the caller's access token for forwarding to the catalog.
func WithBearer(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, bearerKey{}, token)
}

// BearerFromContext returns the token stored by WithBearer, or "".
func BearerFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(bearerKey{}).(string); ok {
		return v
	}
	return ""
}
