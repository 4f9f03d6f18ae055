package pipeline

import (
	"github.com/google/uuid"

	"github.com/configsmith/engine/internal/selector"
)

// NoItemIndex marks a context built outside an item iteration.
const NoItemIndex = -1

// Context is the immutable bag passed unchanged through every step of
// one extraction run.
type Context struct {
	PageURL   string
	HTML      string
	Selector  selector.Spec
	Scope     string
	ItemIndex int
	RunID     string
	Helpers   Helpers
}

// Helpers are the fixed helper functions available to processors.
type Helpers struct {
	// ParsePrice applies the to_price conversion to arbitrary text.
	// Pass "auto" (or "") to detect the currency from the text.
	ParsePrice func(text, currency string) any
}

// NewContext builds the context for one extraction. ItemIndex is
// NoItemIndex when the field is not item-scoped.
func NewContext(pageURL, sourceHTML string, sel selector.Spec, scopeName string, itemIndex int) *Context {
	return &Context{
		PageURL:   pageURL,
		HTML:      sourceHTML,
		Selector:  sel,
		Scope:     scopeName,
		ItemIndex: itemIndex,
		RunID:     uuid.NewString(),
		Helpers: Helpers{
			ParsePrice: func(text, currency string) any {
				return toPrice(text, currency)
			},
		},
	}
}
