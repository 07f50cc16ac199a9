package pipeline

import (
	"fmt"
	"strings"

	"github.com/jonathan/persona-studio/internal/llm"
	"github.com/jonathan/persona-studio/internal/prompts"
	"github.com/jonathan/persona-studio/internal/types"
)

const (
	promptFile = "persona.json"

	// previewRunes is the number of characters of file content quoted in the prompt.
	previewRunes = 200

	notProvided = "not provided"
)

// BuildPrompt renders the persona generation prompt for a submission.
func BuildPrompt(input types.CompanyInput) string {
	url := input.URL
	if url == "" {
		url = notProvided
	}

	return prompts.Format(prompts.MustGet(promptFile, "generate-personas"), map[string]string{
		"CompanyName":        input.Name,
		"CompanyDescription": input.Description,
		"CompanyURL":         url,
		"MarketingGoals":     input.MarketingGoals,
		"FileContext":        fileContext(input.Files),
		"SchemaOutline":      llm.PersonaScaffoldSchema().Outline(),
	})
}

// fileContext lists attached files with a short excerpt of any readable text.
func fileContext(files []types.ProcessedFile) string {
	if len(files) == 0 {
		return ""
	}

	lines := []string{prompts.MustGet(promptFile, "file-context-header")}
	for _, f := range files {
		data := map[string]string{
			"FileName":   f.Name,
			"FileType":   f.Type,
			"FileSizeKB": fmt.Sprintf("%.2f", float64(f.Size)/1024),
		}
		lines = append(lines, prompts.Format(prompts.MustGet(promptFile, "file-context-entry"), data))

		if f.HasText() {
			data["Preview"] = preview(*f.Content, previewRunes)
			lines = append(lines, prompts.Format(prompts.MustGet(promptFile, "file-context-preview"), data))
		} else {
			lines = append(lines, prompts.Format(prompts.MustGet(promptFile, "file-context-no-text"), data))
		}
	}
	return strings.Join(lines, "\n") + "\n"
}

func preview(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n])
}
