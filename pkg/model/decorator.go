package model

import (
	"strconv"
	"strings"
)

// Decorator enriches a form model with additional metadata after the
// descriptor-derived structure has been built.
type Decorator interface {
	Decorate(*FormModel) error
}

// DecoratorFunc adapts a function into a Decorator.
type DecoratorFunc func(*FormModel) error

// Decorate calls the underlying function.
func (fn DecoratorFunc) Decorate(form *FormModel) error {
	return fn(form)
}

// HelpText returns a decorator attaching help text to fields. Keys are
// 1-based positions as written in configuration files ("1", "2", ...).
// Unknown or out-of-range keys are ignored.
func HelpText(hints map[string]string) Decorator {
	return DecoratorFunc(func(form *FormModel) error {
		for key, text := range hints {
			text = strings.TrimSpace(text)
			position, err := strconv.Atoi(strings.TrimSpace(key))
			if err != nil || text == "" || position < 1 || position > len(form.Fields) {
				continue
			}
			field := &form.Fields[position-1]
			if field.Metadata == nil {
				field.Metadata = make(map[string]string)
			}
			field.Metadata[MetadataHelpText] = text
		}
		return nil
	})
}
