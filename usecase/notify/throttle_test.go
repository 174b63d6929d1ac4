package notify

import (
	"context"
	"testing"
	"time"

	"github.com/studyspot/backend/domain"
)

type notificationStubRepo struct {
	events []domain.NotificationEvent
}

func (s *notificationStubRepo) Log(_ context.Context, event *domain.NotificationEvent) error {
	event.ID = int64(len(s.events) + 1)
	s.events = append(s.events, *event)
	return nil
}

func (s *notificationStubRepo) Last(_ context.Context, userID, locationID string) (time.Time, error) {
	var last time.Time
	for _, e := range s.events {
		if e.UserID == userID && e.LocationID == locationID && e.NotifiedAt.After(last) {
			last = e.NotifiedAt
		}
	}
	return last, nil
}

func TestShouldNotifyNeverNotified(t *testing.T) {
	throttle := NewThrottle(&notificationStubRepo{}, 0)

	ok, err := throttle.ShouldNotify(context.Background(), "alice", "library", time.Now())
	if err != nil {
		t.Fatalf("ShouldNotify returned error: %v", err)
	}
	if !ok {
		t.Fatalf("expected true for a pair that was never notified")
	}
}

func TestShouldNotifyCooldownWindow(t *testing.T) {
	repo := &notificationStubRepo{}
	throttle := NewThrottle(repo, 30*time.Minute)

	t0 := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	if err := repo.Log(context.Background(), &domain.NotificationEvent{
		UserID: "alice", LocationID: "library", NotifiedAt: t0,
	}); err != nil {
		t.Fatalf("Log returned error: %v", err)
	}

	cases := []struct {
		offset time.Duration
		want   bool
	}{
		{29 * time.Minute, false},
		{30 * time.Minute, true},
		{31 * time.Minute, true},
		{time.Second, false},
	}
	for _, tc := range cases {
		got, err := throttle.ShouldNotify(context.Background(), "alice", "library", t0.Add(tc.offset))
		if err != nil {
			t.Fatalf("ShouldNotify returned error: %v", err)
		}
		if got != tc.want {
			t.Fatalf("ShouldNotify at +%s = %v, want %v", tc.offset, got, tc.want)
		}
	}
}

func TestShouldNotifyPerPair(t *testing.T) {
	repo := &notificationStubRepo{}
	throttle := NewThrottle(repo, 30*time.Minute)

	t0 := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	_ = repo.Log(context.Background(), &domain.NotificationEvent{
		UserID: "alice", LocationID: "library", NotifiedAt: t0,
	})

	ok, err := throttle.ShouldNotify(context.Background(), "alice", "union", t0.Add(time.Minute))
	if err != nil {
		t.Fatalf("ShouldNotify returned error: %v", err)
	}
	if !ok {
		t.Fatalf("another location must not be throttled by the library event")
	}

	ok, err = throttle.ShouldNotify(context.Background(), "bob", "library", t0.Add(time.Minute))
	if err != nil {
		t.Fatalf("ShouldNotify returned error: %v", err)
	}
	if !ok {
		t.Fatalf("another user must not be throttled by alice's event")
	}
}

// A user who leaves the radius and comes back within the window still gets
// exactly one prompt per cooldown; the throttle has no notion of presence.
func TestShouldNotifyLeaveAndReturn(t *testing.T) {
	repo := &notificationStubRepo{}
	throttle := NewThrottle(repo, 30*time.Minute)

	t0 := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	_ = repo.Log(context.Background(), &domain.NotificationEvent{
		UserID: "alice", LocationID: "library", NotifiedAt: t0,
	})

	// Back after 10 minutes away: still suppressed.
	ok, err := throttle.ShouldNotify(context.Background(), "alice", "library", t0.Add(10*time.Minute))
	if err != nil {
		t.Fatalf("ShouldNotify returned error: %v", err)
	}
	if ok {
		t.Fatalf("returning within the window must not re-prompt")
	}

	// Back after the window: allowed again.
	ok, err = throttle.ShouldNotify(context.Background(), "alice", "library", t0.Add(45*time.Minute))
	if err != nil {
		t.Fatalf("ShouldNotify returned error: %v", err)
	}
	if !ok {
		t.Fatalf("expected re-prompt after the cooldown elapsed")
	}
}
