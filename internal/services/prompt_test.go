package services

import (
	"strings"
	"testing"
)

func TestBuildSimplePrompt(t *testing.T) {
	intake := CaseIntake{
		Title:       "Wrongful termination",
		Description: "Fired after announcing pregnancy, no performance issues cited",
		CaseType:    "Employment Law",
	}
	prompt := BuildSimplePrompt(intake)

	for _, section := range []string{
		"## CASE OVERVIEW",
		"## LEGAL FRAMEWORK",
		"## KEY LEGAL POINTS",
		"## RISK ASSESSMENT",
		"## RECOMMENDED ACTIONS",
		"## TIMELINE & DEADLINES",
	} {
		if !strings.Contains(prompt, section) {
			t.Fatalf("simple prompt missing section %q", section)
		}
	}
	if !strings.Contains(prompt, intake.Description) {
		t.Fatal("simple prompt missing description")
	}
	if !strings.Contains(prompt, "Employment Law") {
		t.Fatal("simple prompt missing case type")
	}

	if again := BuildSimplePrompt(intake); again != prompt {
		t.Fatal("BuildSimplePrompt is not deterministic")
	}
}

func TestBuildSimplePromptMissingFields(t *testing.T) {
	prompt := BuildSimplePrompt(CaseIntake{Description: "Deposit not returned"})
	if !strings.Contains(prompt, "Not specified") {
		t.Fatal("missing fields should render as Not specified")
	}
}

func TestBuildInteractiveOpeningPrompt(t *testing.T) {
	intake := CaseIntake{
		Title:       "Lease dispute",
		Description: "Landlord kept the deposit without cause",
		CaseType:    "Real Estate Law",
	}
	prompt := BuildInteractiveOpeningPrompt(intake)

	if !strings.Contains(prompt, "2-3 targeted") {
		t.Fatal("opening prompt should instruct 2-3 clarifying questions")
	}
	if !strings.Contains(prompt, intake.Description) || !strings.Contains(prompt, intake.Title) {
		t.Fatal("opening prompt missing intake fields")
	}
}

func TestBuildInteractiveContinuationPrompt(t *testing.T) {
	turns := []Turn{
		{Role: RoleAssistant, Content: "When did you sign the lease?"},
		{Role: RoleUser, Content: "In January 2024."},
	}
	message := "The landlord never did a walkthrough."
	prompt := BuildInteractiveContinuationPrompt(turns, message)

	if !strings.Contains(prompt, "assistant: When did you sign the lease?\n") {
		t.Fatal("continuation prompt missing serialized assistant turn")
	}
	if !strings.Contains(prompt, "user: In January 2024.\n") {
		t.Fatal("continuation prompt missing serialized user turn")
	}
	if !strings.Contains(prompt, `CURRENT USER MESSAGE: "`+message+`"`) {
		t.Fatal("continuation prompt missing latest user message")
	}
}
