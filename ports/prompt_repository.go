package ports

// PromptSource supplies extraction instructions for a domain. An
// implementation may override fallback, e.g. from files on disk, and
// replaces {PLACEHOLDER} tokens with the given values.
type PromptSource interface {
	Resolve(name, fallback string, replacements map[string]string) (string, error)
}
