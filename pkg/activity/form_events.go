package activity

import (
	"strings"
	"time"
)

// Verbs and object types used by form events.
const (
	VerbFormSubmitted = "form.submitted"
	VerbDraftSaved    = "form.draft.saved"
	VerbDraftRestored = "form.draft.restored"

	ObjectTypeForm  = "form"
	ObjectTypeDraft = "form.draft"
)

// FormEventInput carries the fields shared by form events.
type FormEventInput struct {
	ActorID        string
	UserID         string
	TenantID       string
	FormID         string
	DraftKey       string
	Channel        string
	DefinitionCode string
	Recipients     []string
	Metadata       map[string]any
	Attempt        int
	Valid          *bool
	Err            error
	OccurredAt     time.Time
}

// BuildFormSubmittedEvent describes one submit attempt.
func BuildFormSubmittedEvent(input FormEventInput) Event {
	return buildFormEvent(VerbFormSubmitted, ObjectTypeForm, input)
}

// BuildDraftSavedEvent describes a draft capture.
func BuildDraftSavedEvent(input FormEventInput) Event {
	return buildFormEvent(VerbDraftSaved, ObjectTypeDraft, input)
}

// BuildDraftRestoredEvent describes a draft restore.
func BuildDraftRestoredEvent(input FormEventInput) Event {
	return buildFormEvent(VerbDraftRestored, ObjectTypeDraft, input)
}

func buildFormEvent(verb, objectType string, input FormEventInput) Event {
	metadata := cloneMap(input.Metadata)
	set := func(key string, value any) {
		if metadata == nil {
			metadata = map[string]any{}
		}
		metadata[key] = value
	}
	if input.FormID != "" {
		set("form_id", strings.TrimSpace(input.FormID))
	}
	if input.DraftKey != "" {
		set("draft_key", strings.TrimSpace(input.DraftKey))
	}
	if input.Attempt > 0 {
		set("attempt", input.Attempt)
	}
	if input.Valid != nil {
		set("valid", *input.Valid)
	}
	if input.Err != nil {
		set("error", input.Err.Error())
	}

	objectID := strings.TrimSpace(input.DraftKey)
	if objectType == ObjectTypeForm || objectID == "" {
		objectID = strings.TrimSpace(input.FormID)
	}
	if objectID == "" {
		objectID = objectType
	}

	var recipients []string
	if len(input.Recipients) > 0 {
		recipients = append([]string{}, input.Recipients...)
	}

	return Event{
		Verb:           verb,
		ActorID:        strings.TrimSpace(input.ActorID),
		UserID:         strings.TrimSpace(input.UserID),
		TenantID:       strings.TrimSpace(input.TenantID),
		ObjectType:     objectType,
		ObjectID:       objectID,
		Channel:        strings.TrimSpace(input.Channel),
		DefinitionCode: strings.TrimSpace(input.DefinitionCode),
		Recipients:     recipients,
		Metadata:       metadata,
		OccurredAt:     input.OccurredAt,
	}
}
