package hydrate

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type contact struct {
	Name   string   `json:"name"`
	Age    int      `json:"age"`
	Emails []string `json:"emails"`
	Phone  *string  `json:"phone"`
}

type skip struct{}

func dropSkip(v any) bool {
	_, ok := v.(skip)
	return ok
}

func TestDecoderCases(t *testing.T) {
	cases := []struct {
		name      string
		payload   any
		options   []DecoderOption[contact]
		expect    contact
		expectErr string
	}{
		{
			name:    "record",
			payload: map[string]any{"name": "Ada", "age": 36, "emails": []any{"ada@example.com"}},
			expect:  contact{Name: "Ada", Age: 36, Emails: []string{"ada@example.com"}},
		},
		{
			name:    "drop removes entries",
			payload: map[string]any{"name": "Ada", "phone": skip{}, "emails": []any{"a@x", skip{}}},
			options: []DecoderOption[contact]{WithDrop[contact](dropSkip)},
			expect:  contact{Name: "Ada", Emails: []string{"a@x"}},
		},
		{
			name:      "unknown fields",
			payload:   map[string]any{"name": "Ada", "nickname": "A"},
			options:   []DecoderOption[contact]{WithDisallowUnknownFields[contact]()},
			expectErr: "unknown field",
		},
		{
			name:      "nil payload",
			payload:   nil,
			expectErr: "payload is nil",
		},
		{
			name:    "pre hook",
			payload: map[string]any{"name": " Ada "},
			options: []DecoderOption[contact]{WithPreHook[contact](func(_ Context, payload any) (any, error) {
				record := payload.(map[string]any)
				record["name"] = strings.TrimSpace(record["name"].(string))
				return record, nil
			})},
			expect: contact{Name: "Ada"},
		},
		{
			name:    "pre hook error",
			payload: map[string]any{},
			options: []DecoderOption[contact]{WithPreHook[contact](func(Context, any) (any, error) {
				return nil, errors.New("boom")
			})},
			expectErr: "pre-hook",
		},
		{
			name:    "post hook",
			payload: map[string]any{"name": "Ada"},
			options: []DecoderOption[contact]{WithPostHook[contact](func(ctx Context, c *contact) error {
				c.Emails = append(c.Emails, ctx.FormID+"@forms")
				return nil
			})},
			expect: contact{Name: "Ada", Emails: []string{"signup@forms"}},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			decoder := NewDecoder[contact](tc.options...)
			result, err := decoder.Decode(Context{FormID: "signup"}, tc.payload)
			if tc.expectErr != "" {
				if err == nil {
					t.Fatalf("expected error %q, got nil", tc.expectErr)
				}
				if !strings.Contains(err.Error(), tc.expectErr) {
					t.Fatalf("expected error containing %q, got %v", tc.expectErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected decode error: %v", err)
			}
			if diff := cmp.Diff(tc.expect, result); diff != "" {
				t.Fatalf("decoded value mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecoderUseNumber(t *testing.T) {
	decoder := NewDecoder[map[string]any](WithUseNumber[map[string]any]())
	result, err := decoder.Decode(Context{FormID: "f", Path: "limits"}, map[string]any{"daily": 10})
	if err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	if _, ok := result["daily"].(json.Number); !ok {
		t.Fatalf("expected json.Number, got %T", result["daily"])
	}
}

func TestDecoderErrorCarriesPath(t *testing.T) {
	decoder := NewDecoder[int]()
	_, err := decoder.Decode(Context{FormID: "f", Path: "age"}, "old")
	if err == nil || !strings.Contains(err.Error(), `"f:age"`) {
		t.Fatalf("expected error naming f:age, got %v", err)
	}
}
