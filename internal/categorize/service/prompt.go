package service

import (
	"fmt"
	"strings"

	organizationModel "github.com/prscope/prscope/internal/organization/model"
)

// maxDiffChars bounds the diff portion of the prompt; anything longer is
// truncated with a marker so the model still sees title and description.
const maxDiffChars = 50000

// buildPrompt constructs the system and user prompts. The system prompt
// enumerates the category names exactly and pins the response format the
// parser expects.
func buildPrompt(categories []organizationModel.Category, title, body, diff string) (string, string) {
	var sb strings.Builder
	sb.WriteString("You are a pull request classifier. ")
	sb.WriteString("Assign the pull request to exactly one of the following categories:\n")
	for i, category := range categories {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, category.Name)
	}
	sb.WriteString("\nRespond in exactly this format:\n")
	sb.WriteString("Category: <name>, Confidence: <0.0-1.0>\n")
	sb.WriteString("Use only category names from the list above. Never invent a new category name.")
	system := sb.String()

	if len(diff) > maxDiffChars {
		diff = diff[:maxDiffChars] + "\n... (diff truncated)"
	}

	var ub strings.Builder
	fmt.Fprintf(&ub, "Title: %s\n\n", title)
	if body != "" {
		fmt.Fprintf(&ub, "Description:\n%s\n\n", body)
	}
	fmt.Fprintf(&ub, "Diff:\n%s", diff)

	return system, ub.String()
}
