package services

import (
	"fmt"
	"strings"
)

// Prompt building is pure and deterministic: same mode, state and intake in,
// same instruction text out. No service owns prompt state.

const simplePromptTemplate = `You are a professional legal AI assistant specializing in case analysis. Analyze the following legal case and provide a comprehensive report.

CASE DETAILS:
Title: %s
Case Type: %s
Description: %s
%s
ANALYSIS REQUIREMENTS:
Provide a detailed legal case analysis with the following structure:

## CASE OVERVIEW
- Brief summary of the case
- Primary legal issues identified
- Parties involved

## LEGAL FRAMEWORK
- Applicable laws and regulations
- Relevant statutes and precedents
- Jurisdiction considerations

## KEY LEGAL POINTS
- Strengths of the case
- Potential weaknesses or challenges
- Critical evidence requirements

## RISK ASSESSMENT
- Likelihood of success
- Potential outcomes
- Financial implications

## RECOMMENDED ACTIONS
- Immediate steps to take
- Evidence to gather
- Legal strategies to consider

## TIMELINE & DEADLINES
- Statute of limitations considerations
- Key milestones and deadlines
- Recommended timing for actions

IMPORTANT: Keep analysis professional, balanced, and practical. Always recommend consulting with a qualified attorney for specific legal advice.

Format your response clearly with proper headings and bullet points where appropriate.`

func BuildSimplePrompt(intake CaseIntake) string {
	extra := ""
	if strings.TrimSpace(intake.AdditionalDetails) != "" {
		extra = fmt.Sprintf("Additional Details: %s\n", intake.AdditionalDetails)
	}
	return fmt.Sprintf(simplePromptTemplate,
		orNotSpecified(intake.Title),
		orNotSpecified(intake.CaseType),
		intake.Description,
		extra,
	)
}

const interactiveOpeningTemplate = `You are an elite legal AI consultant providing premium interactive legal guidance. You specialize in in-depth case analysis through intelligent questioning and personalized advice.

CASE INFORMATION:
Title: %s
Case Type: %s
Description: %s

YOUR APPROACH:
1. Acknowledge their case professionally
2. Ask 2-3 targeted, intelligent questions to gather critical details
3. Focus on the most important aspects that will impact their legal strategy
4. Keep responses conversational but professional
5. Build toward a comprehensive analysis

Ask strategic questions about:
- Timeline and deadlines
- Evidence and documentation
- Parties involved and their positions
- Specific outcomes they're seeking
- Budget and practical constraints
- Previous legal actions taken

Start with a warm acknowledgment and then ask your most important questions.`

func BuildInteractiveOpeningPrompt(intake CaseIntake) string {
	return fmt.Sprintf(interactiveOpeningTemplate,
		orNotSpecified(intake.Title),
		orNotSpecified(intake.CaseType),
		intake.Description,
	)
}

const interactiveContinuationTemplate = `You are an elite legal AI consultant continuing an interactive session.

PREVIOUS CONVERSATION:
%s
CURRENT USER MESSAGE: "%s"

YOUR APPROACH:
- If you have sufficient information, provide comprehensive legal analysis
- If more details are needed, ask 1-2 focused follow-up questions
- Always maintain context of the original case
- Provide actionable, practical advice
- Keep responses professional yet conversational
- Focus on helping them achieve their goals

IMPORTANT: Only discuss the original case. If they mention new cases, politely redirect them to start a new session.

Continue the conversation naturally, building on what you already know.`

// BuildInteractiveContinuationPrompt serializes the prior turns as
// "role: content" lines and appends the latest user message separately.
func BuildInteractiveContinuationPrompt(turns []Turn, message string) string {
	var b strings.Builder
	for _, turn := range turns {
		b.WriteString(turn.Role)
		b.WriteString(": ")
		b.WriteString(turn.Content)
		b.WriteString("\n")
	}
	return fmt.Sprintf(interactiveContinuationTemplate, b.String(), message)
}

func orNotSpecified(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Not specified"
	}
	return s
}
