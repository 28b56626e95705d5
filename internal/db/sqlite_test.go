package db

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/javiermolinar/freetogether/internal/event"
	"github.com/javiermolinar/freetogether/internal/slot"
)

func newEvent(t *testing.T, name, owner string) *event.Event {
	t.Helper()
	e, err := event.New(name, "once", "UTC", "2024-05-26", "2024-05-28", owner)
	if err != nil {
		t.Fatalf("event.New: %v", err)
	}
	return e
}

func TestCreateAndGetEvent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	e := newEvent(t, "Team sync", "owner@example.com")
	if _, err := e.Invite([]string{"ana@example.com", "bo@example.com"}); err != nil {
		t.Fatalf("Invite: %v", err)
	}

	if err := repo.CreateEvent(ctx, e); err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}

	got, err := repo.GetEvent(ctx, e.ID)
	if err != nil {
		t.Fatalf("GetEvent failed: %v", err)
	}

	if got.Name != "Team sync" || got.Status != event.StatusCollecting || got.Type != event.TypeOnce {
		t.Errorf("got %+v", got)
	}
	if got.StartDate == nil || got.StartDate.Format("2006-01-02") != "2024-05-26" {
		t.Errorf("start date = %v", got.StartDate)
	}
	if !slices.Equal(got.Invitees, []string{"ana@example.com", "bo@example.com"}) {
		t.Errorf("invitees = %v", got.Invitees)
	}
	if !got.CreatedAt.Truncate(time.Second).Equal(e.CreatedAt.Truncate(time.Second)) {
		t.Errorf("created at = %v, want %v", got.CreatedAt, e.CreatedAt)
	}
}

func TestGetEvent_NotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetEvent(context.Background(), "missing")
	if !errors.Is(err, event.ErrEventNotFound) {
		t.Errorf("got %v, want ErrEventNotFound", err)
	}
	if !IsNotFound(err) {
		t.Error("IsNotFound = false")
	}
}

func TestCreateEvent_GenericWeek(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	e, err := event.New("Weekly standup", "weekly", "", "", "", "owner@example.com")
	if err != nil {
		t.Fatalf("event.New: %v", err)
	}
	if err := repo.CreateEvent(ctx, e); err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}

	got, err := repo.GetEvent(ctx, e.ID)
	if err != nil {
		t.Fatalf("GetEvent failed: %v", err)
	}
	if got.StartDate != nil || got.EndDate != nil {
		t.Error("expected no dates")
	}
	if got.Invitees != nil {
		t.Errorf("invitees = %v", got.Invitees)
	}
}

func TestListEvents_OwnedAndInvited(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	owned := newEvent(t, "Mine", "me@example.com")
	invited := newEvent(t, "Theirs", "them@example.com")
	_, _ = invited.Invite([]string{"me@example.com"})
	other := newEvent(t, "Other", "them@example.com")

	for _, e := range []*event.Event{owned, invited, other} {
		if err := repo.CreateEvent(ctx, e); err != nil {
			t.Fatalf("CreateEvent failed: %v", err)
		}
	}

	events, err := repo.ListEvents(ctx, "me@example.com")
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	var names []string
	for _, e := range events {
		names = append(names, e.Name)
	}
	slices.Sort(names)
	if !slices.Equal(names, []string{"Mine", "Theirs"}) {
		t.Errorf("names = %v", names)
	}
}

func TestUpdateEvent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	e := newEvent(t, "Team sync", "owner@example.com")
	if err := repo.CreateEvent(ctx, e); err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}

	if err := e.Schedule("2024-05-27", "10:00"); err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if err := repo.UpdateEvent(ctx, e); err != nil {
		t.Fatalf("UpdateEvent failed: %v", err)
	}

	got, _ := repo.GetEvent(ctx, e.ID)
	if got.Status != event.StatusScheduled || got.ScheduledDate != "2024-05-27" || got.ScheduledTime != "10:00" {
		t.Errorf("got %+v", got)
	}

	missing := newEvent(t, "Ghost", "owner@example.com")
	if err := repo.UpdateEvent(ctx, missing); !errors.Is(err, event.ErrEventNotFound) {
		t.Errorf("update missing: %v", err)
	}
}

func TestAddInvitees(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	e := newEvent(t, "Team sync", "owner@example.com")
	_, _ = e.Invite([]string{"ana@example.com"})
	if err := repo.CreateEvent(ctx, e); err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}

	if err := repo.AddInvitees(ctx, e.ID, []string{"bo@example.com", "ana@example.com"}); err != nil {
		t.Fatalf("AddInvitees failed: %v", err)
	}

	got, _ := repo.GetEvent(ctx, e.ID)
	if !slices.Equal(got.Invitees, []string{"ana@example.com", "bo@example.com"}) {
		t.Errorf("invitees = %v", got.Invitees)
	}

	if err := repo.AddInvitees(ctx, "missing", []string{"x@example.com"}); !errors.Is(err, event.ErrEventNotFound) {
		t.Errorf("add to missing: %v", err)
	}
}

func TestSubmitResponse_FullReplace(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	e := newEvent(t, "Team sync", "owner@example.com")
	if err := repo.CreateEvent(ctx, e); err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}

	first, err := event.NewResponse(e, "ana@example.com", "Ana",
		[]slot.Key{"sunday_2024-05-26_9", "sunday_2024-05-26_10"},
		[]slot.Key{"monday_2024-05-27_14"},
	)
	if err != nil {
		t.Fatalf("NewResponse: %v", err)
	}
	if err := repo.SubmitResponse(ctx, first); err != nil {
		t.Fatalf("SubmitResponse failed: %v", err)
	}

	second, _ := event.NewResponse(e, "ana@example.com", "Ana B",
		nil,
		[]slot.Key{"tuesday_2024-05-28_8"},
	)
	if err := repo.SubmitResponse(ctx, second); err != nil {
		t.Fatalf("SubmitResponse failed: %v", err)
	}

	responses, err := repo.ListResponses(ctx, e.ID)
	if err != nil {
		t.Fatalf("ListResponses failed: %v", err)
	}
	if len(responses) != 1 {
		t.Fatalf("got %d responses, want 1", len(responses))
	}
	r := responses[0]
	if r.Name != "Ana B" || len(r.Available) != 0 {
		t.Errorf("response = %+v", r)
	}
	if !slices.Equal(r.Maybe, []slot.Key{"tuesday_2024-05-28_8"}) {
		t.Errorf("maybe = %v", r.Maybe)
	}
}

func TestListResponses_Sorted(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	e := newEvent(t, "Team sync", "owner@example.com")
	if err := repo.CreateEvent(ctx, e); err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}

	for _, who := range []string{"zed@example.com", "amy@example.com"} {
		r, _ := event.NewResponse(e, who, "", []slot.Key{"monday_2024-05-27_10", "monday_2024-05-27_9"}, nil)
		if err := repo.SubmitResponse(ctx, r); err != nil {
			t.Fatalf("SubmitResponse failed: %v", err)
		}
	}

	responses, err := repo.ListResponses(ctx, e.ID)
	if err != nil {
		t.Fatalf("ListResponses failed: %v", err)
	}
	if len(responses) != 2 || responses[0].ParticipantID != "amy@example.com" {
		t.Fatalf("responses = %+v", responses)
	}
	want := []slot.Key{"monday_2024-05-27_9", "monday_2024-05-27_10"}
	if !slices.Equal(responses[1].Available, want) {
		t.Errorf("available = %v", responses[1].Available)
	}
}

func TestDeleteEvent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	e := newEvent(t, "Team sync", "owner@example.com")
	_, _ = e.Invite([]string{"ana@example.com"})
	if err := repo.CreateEvent(ctx, e); err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}
	r, _ := event.NewResponse(e, "ana@example.com", "Ana", []slot.Key{"sunday_2024-05-26_9"}, nil)
	if err := repo.SubmitResponse(ctx, r); err != nil {
		t.Fatalf("SubmitResponse failed: %v", err)
	}

	if err := repo.DeleteEvent(ctx, e.ID); err != nil {
		t.Fatalf("DeleteEvent failed: %v", err)
	}

	if _, err := repo.GetEvent(ctx, e.ID); !errors.Is(err, event.ErrEventNotFound) {
		t.Errorf("event still present: %v", err)
	}
	responses, err := repo.ListResponses(ctx, e.ID)
	if err != nil || len(responses) != 0 {
		t.Errorf("responses left behind: %v %v", responses, err)
	}
	if err := repo.DeleteEvent(ctx, e.ID); !errors.Is(err, event.ErrEventNotFound) {
		t.Errorf("second delete: %v", err)
	}
}

func newTestRepo(t *testing.T) *SQLite {
	t.Helper()

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	repo, err := New(dbPath)
	if err != nil {
		t.Fatalf("failed to create test repo: %v", err)
	}

	t.Cleanup(func() {
		_ = repo.Close()
	})

	return repo
}
