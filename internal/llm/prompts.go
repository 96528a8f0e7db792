package llm

import (
	_ "embed"
	"strings"
)

var (
	//go:embed prompts/suggestions.txt
	suggestionsPrompt string
	//go:embed prompts/transform.txt
	transformPrompt string
)

// SuggestionsRequest builds the prompt that rewrites one description into
// three improved variants.
func SuggestionsRequest(description, jobRole, companyName string) Request {
	var b strings.Builder
	b.WriteString("Description:\n")
	b.WriteString(strings.TrimSpace(description))
	if role := strings.TrimSpace(jobRole); role != "" {
		b.WriteString("\n\nJob role: ")
		b.WriteString(role)
	}
	if company := strings.TrimSpace(companyName); company != "" {
		b.WriteString("\n\nCompany: ")
		b.WriteString(company)
	}
	return Request{System: suggestionsPrompt, Prompt: b.String(), JSON: true}
}

// TransformRequest builds the prompt that extracts a resume document from
// free text.
func TransformRequest(text string) Request {
	return Request{System: transformPrompt, Prompt: "Resume text:\n" + strings.TrimSpace(text), JSON: true}
}
