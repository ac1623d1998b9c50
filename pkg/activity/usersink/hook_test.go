package usersink_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-forms/pkg/activity"
	"github.com/goliatone/go-forms/pkg/activity/usersink"
	usertypes "github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"
)

type recordingSink struct {
	records []usertypes.ActivityRecord
	err     error
}

func (s *recordingSink) Log(_ context.Context, record usertypes.ActivityRecord) error {
	s.records = append(s.records, record)
	return s.err
}

func TestHookNotifyMapsSubmitEvent(t *testing.T) {
	sink := &recordingSink{}
	hook := usersink.Hook{Sink: sink}

	actorID := uuid.New()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	valid := true
	event := activity.BuildFormSubmittedEvent(activity.FormEventInput{
		ActorID:        actorID.String(),
		UserID:         "not-a-uuid",
		FormID:         "signup",
		Channel:        "forms",
		DefinitionCode: "form:submit",
		Recipients:     []string{"ops@example.com"},
		Attempt:        1,
		Valid:          &valid,
		OccurredAt:     now,
	})

	if err := hook.Notify(context.Background(), event); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if len(sink.records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(sink.records))
	}
	record := sink.records[0]
	if record.ActorID != actorID {
		t.Fatalf("expected actor %s, got %s", actorID, record.ActorID)
	}
	if record.UserID != uuid.Nil {
		t.Fatalf("expected invalid user id to map to uuid.Nil, got %s", record.UserID)
	}
	if record.Verb != activity.VerbFormSubmitted || record.ObjectType != activity.ObjectTypeForm || record.ObjectID != "signup" {
		t.Fatalf("unexpected object fields: %+v", record)
	}
	if !record.OccurredAt.Equal(now) {
		t.Fatalf("expected occurred_at %v, got %v", now, record.OccurredAt)
	}
	if record.Data["definition_code"] != "form:submit" || record.Data["attempt"] != 1 || record.Data["valid"] != true {
		t.Fatalf("unexpected data: %+v", record.Data)
	}
	recipients, ok := record.Data["recipients"].([]string)
	if !ok || len(recipients) != 1 || recipients[0] != "ops@example.com" {
		t.Fatalf("expected recipients in data, got %v", record.Data["recipients"])
	}
}

func TestHookNotifySkipsIncompleteEventsAndMissingSink(t *testing.T) {
	sink := &recordingSink{}
	if err := (usersink.Hook{Sink: sink}).Notify(context.Background(), activity.Event{Verb: "x"}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(sink.records) != 0 {
		t.Fatalf("expected no records for incomplete event")
	}
	if err := (usersink.Hook{}).Notify(context.Background(), activity.Event{Verb: "x", ObjectType: "form", ObjectID: "1"}); err != nil {
		t.Fatalf("expected nil error without sink, got %v", err)
	}
}

func TestHookNotifyReturnsSinkError(t *testing.T) {
	boom := errors.New("sink down")
	sink := &recordingSink{err: boom}
	err := (usersink.Hook{Sink: sink}).Notify(context.Background(), activity.BuildDraftSavedEvent(activity.FormEventInput{FormID: "f"}))
	if !errors.Is(err, boom) {
		t.Fatalf("expected sink error, got %v", err)
	}
}
