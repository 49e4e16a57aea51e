package normalize

import "context"

// Translation is the outcome of a translation call.
type Translation struct {
	Text       string
	SourceLang string
}

// Translator is the consumer interface for the translation backend.
type Translator interface {
	Translate(ctx context.Context, text string) (Translation, error)
	Available() bool
}
