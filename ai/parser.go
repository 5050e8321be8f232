package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Rewrite is the structured result extracted from a model response.
type Rewrite struct {
	Headline string `json:"headline"`
	Body     string `json:"body"`
	Category string `json:"category"`
}

// Parse strips Markdown code fences from raw model output and decodes
// the remaining JSON. A decode failure is reported to the caller, which
// falls back to using the raw text as the article body; missing fields
// on a successful decode are left empty for per-field fallback.
func Parse(raw string) (Rewrite, error) {
	clean := StripFences(raw)

	var result Rewrite
	if err := json.Unmarshal([]byte(clean), &result); err != nil {
		return Rewrite{}, fmt.Errorf("parse model output: %w", err)
	}
	return result, nil
}

// StripFences removes a surrounding ```json ... ``` (or bare ```) block.
func StripFences(raw string) string {
	clean := strings.TrimSpace(raw)
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")
	return strings.TrimSpace(clean)
}
