package products

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/gentlecorp/inventory-service/pkg/config"
	pkgerrors "github.com/gentlecorp/inventory-service/pkg/errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(config.ProductConfig{BaseURL: server.URL, Timeout: 2 * time.Second})
}

func TestGetByID_Success(t *testing.T) {
	productID := uuid.New()
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/product/"+productID.String() {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer token-123" {
			t.Fatalf("unexpected authorization header %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"` + productID.String() + `","name":"iPhone 14","brand":"Apple"}`))
	})

	ctx := WithBearer(context.Background(), "token-123")
	info, err := client.GetByID(ctx, productID)
	if err != nil {
		t.Fatalf("GetByID error = %v", err)
	}
	if info.Name != "iPhone 14" || info.Brand != "Apple" {
		t.Fatalf("unexpected product info %+v", info)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.GetByID(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestGetByID_UpstreamFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.GetByID(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}
