package service

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/Leganyst/booking-core/internal/calendar"
	"github.com/Leganyst/booking-core/internal/logging"
)

func TestReviewService_Add(t *testing.T) {
	f := newFixture(t)
	reviews := NewReviewService(f.store, logging.Discard())

	if _, err := reviews.Add(f.ctx, f.guestActor(), f.restaurant.ID, ReviewInput{Rating: 5, Comment: "Lovely"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := reviews.Add(f.ctx, f.guestActor(), f.restaurant.ID, ReviewInput{Rating: 1, Comment: "Second try"}); !errors.Is(err, ErrAlreadyReviewed) {
		t.Fatalf("expected ErrAlreadyReviewed, got %v", err)
	}

	other := f.newGuest(t, "other@example.com")
	if _, err := reviews.Add(f.ctx, Actor{UserID: other.ID}, f.restaurant.ID, ReviewInput{Rating: 4, Comment: "  Fine  "}); err != nil {
		t.Fatalf("Add second guest: %v", err)
	}

	got, err := f.admin.Get(f.ctx, f.restaurant.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Rating != 4.5 || got.ReviewCount != 2 {
		t.Fatalf("expected rating 4.5 over 2 reviews, got %v over %d", got.Rating, got.ReviewCount)
	}

	page, err := reviews.List(f.ctx, f.restaurant.ID, 1, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page.Total != 2 || len(page.Items) != 2 {
		t.Fatalf("expected 2 reviews, got %+v", page)
	}
	if page.Items[0].CreatedAt.Before(page.Items[1].CreatedAt) {
		t.Fatalf("expected newest first, got %v then %v", page.Items[0].CreatedAt, page.Items[1].CreatedAt)
	}
	for _, r := range page.Items {
		if r.UserID == other.ID && r.Comment != "Fine" {
			t.Fatalf("expected trimmed comment, got %q", r.Comment)
		}
		if r.User == nil {
			t.Fatalf("expected author to be preloaded")
		}
	}
}

func TestReviewService_Rejects(t *testing.T) {
	f := newFixture(t)
	reviews := NewReviewService(f.store, logging.Discard())

	for _, in := range []ReviewInput{
		{Rating: 0, Comment: "zero"},
		{Rating: 6, Comment: "six"},
		{Rating: 3, Comment: "   "},
	} {
		if _, err := reviews.Add(f.ctx, f.guestActor(), f.restaurant.ID, in); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("%+v: expected ErrInvalidInput, got %v", in, err)
		}
	}

	_, err := reviews.Add(f.ctx, Actor{UserID: uuid.New()}, f.restaurant.ID, ReviewInput{Rating: 3, Comment: "ghost"})
	if !errors.Is(err, ErrForbidden) || !errors.Is(err, calendar.ErrUserNotFound) {
		t.Fatalf("expected ErrForbidden for an unknown user, got %v", err)
	}

	if _, err := reviews.Add(f.ctx, f.guestActor(), uuid.New(), ReviewInput{Rating: 3, Comment: "nowhere"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for a missing restaurant, got %v", err)
	}

	if err := f.admin.Deactivate(f.ctx, f.ownerActor(), f.restaurant.ID); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}
	if _, err := reviews.Add(f.ctx, f.guestActor(), f.restaurant.ID, ReviewInput{Rating: 3, Comment: "closed"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for an inactive restaurant, got %v", err)
	}
}
