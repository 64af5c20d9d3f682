package services

import (
	"testing"

	"github.com/lexgen/lexgen-backend/internal/config"
	"github.com/lexgen/lexgen-backend/internal/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return log
}

func TestModerationScreen(t *testing.T) {
	svc := NewModerationService(testLogger(t), config.DefaultPolicy().Moderation)

	cases := []struct {
		name   string
		fields map[string]string
		want   bool
	}{
		{
			name:   "clean_employment_case",
			fields: map[string]string{"description": "Fired after announcing pregnancy, no performance issues cited", "case_type": "Employment Law"},
			want:   true,
		},
		{
			name:   "blocked_term_in_description",
			fields: map[string]string{"description": "My landlord is committing extortion against me"},
			want:   false,
		},
		{
			name:   "blocked_term_uppercase",
			fields: map[string]string{"description": "Charged with ASSAULT last week"},
			want:   false,
		},
		{
			name:   "blocked_term_inside_word",
			fields: map[string]string{"description": "The assaultive behavior of my neighbor"},
			want:   false,
		},
		{
			name:   "blocked_term_in_secondary_field",
			fields: map[string]string{"description": "Contract dispute", "additional_details": "there was also a robbery"},
			want:   false,
		},
		{
			name:   "multi_word_term",
			fields: map[string]string{"description": "Accused of money laundering through shell companies"},
			want:   false,
		},
		{
			name:   "empty_fields",
			fields: map[string]string{"description": ""},
			want:   true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := svc.Screen(tc.fields)
			if got != tc.want {
				t.Fatalf("Screen(%v)=%v, want %v", tc.fields, got, tc.want)
			}
		})
	}
}

func TestModerationScreenIdempotent(t *testing.T) {
	svc := NewModerationService(testLogger(t), config.DefaultPolicy().Moderation)
	fields := map[string]string{"description": "Wrongful termination after whistleblowing"}

	first := svc.Screen(fields)
	second := svc.Screen(fields)
	if first != second {
		t.Fatalf("Screen not idempotent: first=%v second=%v", first, second)
	}
}

func TestModerationInjectableTerms(t *testing.T) {
	svc := NewModerationService(testLogger(t), config.ModerationPolicy{BlockedTerms: []string{"forbidden"}})
	if svc.Screen(map[string]string{"description": "contains forbidden word"}) {
		t.Fatal("custom blocked term not applied")
	}
	if !svc.Screen(map[string]string{"description": "charged with assault"}) {
		t.Fatal("default terms should not apply when a custom list is injected")
	}
}
