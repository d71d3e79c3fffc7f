package users

import (
	"context"
	"errors"
	"testing"
)

func TestUpsertFromAuthNormalizesEmail(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()

	err := svc.UpsertFromAuth(ctx, User{
		ID:       GoogleID("sub-1"),
		Email:    "  Person@Example.COM ",
		FullName: "Test Person",
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := svc.GetByID(ctx, GoogleID("sub-1"))
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Email != "person@example.com" {
		t.Fatalf("expected normalized email, got %q", got.Email)
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Fatal("expected timestamps to be set")
	}
}

func TestUpsertFromAuthPreservesCreatedAt(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()
	user := User{ID: GoogleID("sub-1"), Email: "person@example.com"}

	if err := svc.UpsertFromAuth(ctx, user); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	first, err := svc.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	user.FullName = "Renamed Person"
	if err := svc.UpsertFromAuth(ctx, user); err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	second, err := svc.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Fatalf("expected createdAt preserved, got %v then %v", first.CreatedAt, second.CreatedAt)
	}
	if second.FullName != "Renamed Person" {
		t.Fatalf("expected profile refresh, got %q", second.FullName)
	}
}

func TestUpsertFromAuthRejectsGuests(t *testing.T) {
	svc := NewService(NewMemoryRepo())

	err := svc.UpsertFromAuth(context.Background(), User{ID: "guest:abc", Email: "guest@example.com"})
	if err == nil {
		t.Fatal("expected guest identity to be rejected")
	}
}

func TestUpsertFromAuthRequiresIDAndEmail(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()

	if err := svc.UpsertFromAuth(ctx, User{Email: "person@example.com"}); err == nil {
		t.Fatal("expected missing id to be rejected")
	}
	if err := svc.UpsertFromAuth(ctx, User{ID: GoogleID("sub-1")}); err == nil {
		t.Fatal("expected missing email to be rejected")
	}
}

func TestGetByIDNotFound(t *testing.T) {
	svc := NewService(NewMemoryRepo())

	_, err := svc.GetByID(context.Background(), GoogleID("absent"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGoogleIDAndIsGuestID(t *testing.T) {
	if got := GoogleID("123"); got != "google:123" {
		t.Fatalf("unexpected google id %q", got)
	}
	if IsGuestID("google:123") {
		t.Fatal("google id must not read as guest")
	}
	if !IsGuestID("guest:abc") {
		t.Fatal("guest id must read as guest")
	}
}
