package irgen

import (
	"fmt"
	"strings"

	"tonnikala/internal/directive"
)

// Syntax preset names.
const (
	SyntaxTonnikala = "tonnikala"
	SyntaxJS        = "js"
)

// Options configure one generator. The zero value has no control prefix
// and translation off; use DefaultOptions or Preset.
type Options struct {
	Syntax       directive.Syntax
	Translatable bool
}

// DefaultOptions returns the tonnikala preset.
func DefaultOptions() Options {
	return Options{Syntax: directive.NewSyntax(directive.DefaultPrefix), Translatable: true}
}

// Preset returns the options of a named syntax.
func Preset(name string) (Options, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case SyntaxTonnikala, "":
		return DefaultOptions(), nil
	case SyntaxJS:
		return Options{Syntax: directive.NewSyntax("js"), Translatable: false}, nil
	default:
		return Options{}, fmt.Errorf("unknown syntax %q (expected: %s|%s)", name, SyntaxTonnikala, SyntaxJS)
	}
}

// WithPrefix returns a copy of o using the given control prefix.
func (o Options) WithPrefix(prefix string) Options {
	o.Syntax = directive.NewSyntax(prefix)
	return o
}

// Fingerprint identifies the options in cache keys.
func (o Options) Fingerprint() string {
	return fmt.Sprintf("prefix=%s;translatable=%t", o.Syntax.Prefix, o.Translatable)
}
