package auth

import (
	"testing"
	"time"

	"github.com/gentlecorp/inventory-service/pkg/config"
	"github.com/gentlecorp/inventory-service/pkg/enums"
	"github.com/google/uuid"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "unit-test-secret",
		Issuer:            "inventory-service",
		ExpirationMinutes: 30,
	}
}

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := testJWTConfig()
	now := time.Now()
	payload := AccessTokenPayload{
		UserID:   uuid.New(),
		Username: "gentlecg99",
		Role:     enums.RoleAdmin,
	}

	signed, err := MintAccessToken(cfg, now, payload)
	if err != nil {
		t.Fatalf("MintAccessToken error = %v", err)
	}

	claims, err := ParseAccessToken(cfg, signed)
	if err != nil {
		t.Fatalf("ParseAccessToken error = %v", err)
	}
	if claims.UserID != payload.UserID {
		t.Errorf("UserID = %s, want %s", claims.UserID, payload.UserID)
	}
	if claims.Username != "gentlecg99" {
		t.Errorf("Username = %q", claims.Username)
	}
	if claims.Role != enums.RoleAdmin {
		t.Errorf("Role = %q", claims.Role)
	}
	if claims.ID == "" {
		t.Error("expected a generated jti")
	}
}

func TestMintAccessToken_InvalidRole(t *testing.T) {
	_, err := MintAccessToken(testJWTConfig(), time.Now(), AccessTokenPayload{
		UserID:   uuid.New(),
		Username: "somebody",
		Role:     enums.Role("SUPERUSER"),
	})
	if err == nil {
		t.Fatal("expected error for unknown role")
	}
}

func TestParseAccessToken_WrongSecret(t *testing.T) {
	cfg := testJWTConfig()
	signed, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{
		UserID:   uuid.New(),
		Username: "somebody",
		Role:     enums.RoleUser,
	})
	if err != nil {
		t.Fatalf("MintAccessToken error = %v", err)
	}

	other := cfg
	other.Secret = "a-different-secret"
	if _, err := ParseAccessToken(other, signed); err == nil {
		t.Fatal("expected signature validation to fail")
	}
}

func TestParseAccessToken_Expired(t *testing.T) {
	cfg := testJWTConfig()
	signed, err := MintAccessToken(cfg, time.Now().Add(-2*time.Hour), AccessTokenPayload{
		UserID:   uuid.New(),
		Username: "somebody",
		Role:     enums.RoleUser,
	})
	if err != nil {
		t.Fatalf("MintAccessToken error = %v", err)
	}

	if _, err := ParseAccessToken(cfg, signed); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}
