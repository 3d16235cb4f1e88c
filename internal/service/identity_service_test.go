package service

import (
	"errors"
	"testing"

	"github.com/Leganyst/booking-core/internal/model"
)

func TestIdentityService_RegisterUser(t *testing.T) {
	f := newFixture(t)
	ids := NewIdentityService(f.store.Users)

	u, err := ids.RegisterUser(f.ctx, nil, " New@Example.com ", "New", "8 900 111-22-33", "")
	if err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	if u.Role != model.UserRoleCustomer || !u.IsActive {
		t.Fatalf("unexpected user %+v", u)
	}

	again, err := ids.RegisterUser(f.ctx, nil, "new@example.com", "Renamed", "", model.UserRoleCustomer)
	if err != nil {
		t.Fatalf("RegisterUser again: %v", err)
	}
	if again.ID != u.ID || again.DisplayName != "Renamed" {
		t.Fatalf("expected upsert by email, got %+v", again)
	}

	if _, err := ids.RegisterUser(f.ctx, nil, "boss@example.com", "", "", model.UserRoleOwner); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected self-registration as owner to be forbidden, got %v", err)
	}
	admin := &Actor{Role: model.UserRoleAdmin}
	if _, err := ids.RegisterUser(f.ctx, admin, "boss@example.com", "", "", model.UserRoleOwner); err != nil {
		t.Fatalf("admin RegisterUser: %v", err)
	}

	if _, err := ids.RegisterUser(f.ctx, nil, "not-an-email", "", "", ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid email, got %v", err)
	}
}

func TestIdentityService_SetActive(t *testing.T) {
	f := newFixture(t)
	ids := NewIdentityService(f.store.Users)

	if err := ids.SetActive(f.ctx, f.guestActor(), f.guest.ID, false); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected customers to be forbidden, got %v", err)
	}
	admin := Actor{Role: model.UserRoleAdmin}
	if err := ids.SetActive(f.ctx, admin, f.guest.ID, false); err != nil {
		t.Fatalf("SetActive: %v", err)
	}
	u, err := ids.GetProfile(f.ctx, f.guest.ID)
	if err != nil || u.IsActive {
		t.Fatalf("expected inactive profile, got %+v (%v)", u, err)
	}
}
