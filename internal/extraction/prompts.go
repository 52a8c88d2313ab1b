package extraction

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"clinicsetup/ports"
)

var _ ports.PromptSource = (*PromptManager)(nil)

// PromptManager loads domain instruction overrides from <dir>/<domain>.txt.
// An empty directory disables overrides.
type PromptManager struct {
	PromptsDir string
}

// NewPromptManager creates a prompt manager
func NewPromptManager(promptsDir string) *PromptManager {
	return &PromptManager{PromptsDir: promptsDir}
}

// LoadPrompt loads a prompt template by name. ok is false when no override
// exists.
func (pm *PromptManager) LoadPrompt(name string) (string, bool, error) {
	if pm == nil || pm.PromptsDir == "" {
		return "", false, nil
	}
	path := filepath.Join(pm.PromptsDir, name+".txt")

	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to load prompt %s: %w", name, err)
	}
	return string(content), true, nil
}

// Resolve returns the override for name when present, else fallback. In
// either case {PLACEHOLDER} tokens are replaced.
func (pm *PromptManager) Resolve(name, fallback string, replacements map[string]string) (string, error) {
	template, ok, err := pm.LoadPrompt(name)
	if err != nil {
		return "", err
	}
	if !ok {
		template = fallback
	}

	result := template
	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, "{"+placeholder+"}", value)
	}
	return result, nil
}
