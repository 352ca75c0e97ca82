package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/gentlecorp/inventory-service/pkg/config"
	"github.com/gentlecorp/inventory-service/pkg/db"
	"github.com/gentlecorp/inventory-service/pkg/db/models"
	"github.com/gentlecorp/inventory-service/pkg/enums"
	pkgerrors "github.com/gentlecorp/inventory-service/pkg/errors"
	"github.com/gentlecorp/inventory-service/pkg/security"
)

func newRegisterService(t *testing.T) (RegisterService, *gorm.DB) {
	t.Helper()

	dsn := "file:register_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	svc, err := NewRegisterService(RegisterServiceParams{
		DB:             db.NewWithConn(conn),
		PasswordConfig: config.PasswordConfig{},
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc, conn
}

func TestRegisterWithPassword(t *testing.T) {
	t.Parallel()

	svc, conn := newRegisterService(t)

	resp, err := svc.Register(context.Background(), RegisterRequest{
		Username: "Warehouse01",
		Password: "a long enough password",
		Role:     enums.RoleUser,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if resp.User.Username != "warehouse01" {
		t.Fatalf("username must be normalized, got %s", resp.User.Username)
	}
	if resp.TempPassword != nil {
		t.Fatalf("no temp password expected when one was supplied")
	}

	var stored models.User
	if err := conn.First(&stored, "username = ?", "warehouse01").Error; err != nil {
		t.Fatalf("load user: %v", err)
	}
	valid, err := security.VerifyPassword("a long enough password", stored.PasswordHash)
	if err != nil || !valid {
		t.Fatalf("stored hash must verify, valid=%v err=%v", valid, err)
	}
}

func TestRegisterGeneratesTempPassword(t *testing.T) {
	t.Parallel()

	svc, _ := newRegisterService(t)

	resp, err := svc.Register(context.Background(), RegisterRequest{
		Username: "warehouse02",
		Role:     enums.RoleAdmin,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if resp.TempPassword == nil || len(*resp.TempPassword) != tempPasswordLength {
		t.Fatalf("expected generated temp password of length %d", tempPasswordLength)
	}
}

func TestRegisterRejectsDuplicateUsername(t *testing.T) {
	t.Parallel()

	svc, _ := newRegisterService(t)
	ctx := context.Background()

	req := RegisterRequest{Username: "warehouse03", Password: "a long enough password", Role: enums.RoleUser}
	if _, err := svc.Register(ctx, req); err != nil {
		t.Fatalf("first register: %v", err)
	}

	_, err := svc.Register(ctx, req)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestRegisterRejectsInvalidRole(t *testing.T) {
	t.Parallel()

	svc, _ := newRegisterService(t)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Username: "warehouse04",
		Password: "a long enough password",
		Role:     enums.Role("SUPERUSER"),
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
