package template

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/randalmurphal/databind/pkg/databind"
	"github.com/randalmurphal/databind/pkg/databind/expr"
)

// Expander compiles text with embedded expressions against one model.
//
// Create with NewExpander() and configure with Option functions.
type Expander struct {
	model       *databind.Model
	errorAction ErrorAction
	open, close string
}

// NewExpander creates an Expander for model.
//
// Default configuration:
//   - ErrorAction: ErrorEmpty
//   - Delimiters: "{{" and "}}"
func NewExpander(model *databind.Model, opts ...Option) *Expander {
	e := &Expander{
		model:       model,
		errorAction: ErrorEmpty,
		open:        DefaultOpen,
		close:       DefaultClose,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Template is text split into literal runs and compiled expressions.
// It is compiled once and rendered whenever its dependencies change.
type Template struct {
	text        string
	parts       []part
	errorAction ErrorAction
}

type part struct {
	literal string
	source  string
	expr    *databind.Expression
}

// Compile compiles text with the default options.
//
// Example:
//
//	t, err := template.Compile("Count: {{ count + 1 }}", model)
//	out, err := t.Render()
func Compile(text string, model *databind.Model) (*Template, error) {
	return NewExpander(model).Compile(text)
}

// Compile splits text on the expander's delimiters and compiles each
// embedded expression. Compile errors report positions within text.
func (e *Expander) Compile(text string) (*Template, error) {
	t := &Template{text: text, errorAction: e.errorAction}
	pos := 0
	for pos < len(text) {
		start := strings.Index(text[pos:], e.open)
		if stray := strings.Index(text[pos:], e.close); stray >= 0 && (start < 0 || stray < start) {
			return nil, e.compileError(text, pos+stray, fmt.Sprintf("unexpected %q without %q", e.close, e.open))
		}
		if start < 0 {
			t.parts = append(t.parts, part{literal: text[pos:]})
			break
		}
		start += pos
		if start > pos {
			t.parts = append(t.parts, part{literal: text[pos:start]})
		}

		body := start + len(e.open)
		end := closeIndex(text, body, e.close)
		if end < 0 {
			return nil, e.compileError(text, start, fmt.Sprintf("unterminated %q", e.open))
		}

		source := text[body:end]
		compiled, err := e.model.Compile(source)
		if err != nil {
			var ce *expr.CompileError
			if errors.As(err, &ce) {
				return nil, e.compileError(text, body+ce.Position, ce.Message)
			}
			return nil, err
		}
		t.parts = append(t.parts, part{source: text[start : end+len(e.close)], expr: compiled})
		pos = end + len(e.close)
	}
	return t, nil
}

// MustCompile compiles text and panics on error.
func (e *Expander) MustCompile(text string) *Template {
	t, err := e.Compile(text)
	if err != nil {
		panic(fmt.Sprintf("template: %v", err))
	}
	return t
}

// Expand compiles and renders text once with the given event payload.
func (e *Expander) Expand(text string, ev databind.Event) (string, error) {
	t, err := e.Compile(text)
	if err != nil {
		return "", err
	}
	return t.RenderContext(context.Background(), ev)
}

// ExpandAll expands every string in ss.
// On error, returns nil and the first error.
func (e *Expander) ExpandAll(ss []string, ev databind.Event) ([]string, error) {
	if ss == nil {
		return nil, nil
	}
	results := make([]string, len(ss))
	for i, s := range ss {
		expanded, err := e.Expand(s, ev)
		if err != nil {
			return nil, err
		}
		results[i] = expanded
	}
	return results, nil
}

// ExpandMap expands all string values of m, recursing into nested maps.
// Non-string values are copied as-is.
func (e *Expander) ExpandMap(m map[string]any, ev databind.Event) (map[string]any, error) {
	if m == nil {
		return nil, nil
	}
	result := make(map[string]any, len(m))
	for k, v := range m {
		var err error
		switch val := v.(type) {
		case string:
			result[k], err = e.Expand(val, ev)
		case map[string]any:
			result[k], err = e.ExpandMap(val, ev)
		default:
			result[k] = v
		}
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (e *Expander) compileError(text string, pos int, msg string) error {
	return &expr.CompileError{Expression: text, Position: pos, Message: msg}
}

// closeIndex finds the closing delimiter at or after from, skipping
// single-quoted strings. Returns -1 if there is none.
func closeIndex(text string, from int, close string) int {
	quoted := false
	for i := from; i < len(text); i++ {
		switch {
		case quoted && text[i] == '\\':
			i++
		case text[i] == '\'':
			quoted = !quoted
		case !quoted && strings.HasPrefix(text[i:], close):
			return i
		}
	}
	return -1
}

// Text returns the source text.
func (t *Template) Text() string { return t.text }

// Render renders the template with no event payload.
func (t *Template) Render() (string, error) {
	return t.RenderContext(context.Background(), nil)
}

// MustRender renders the template and panics on error. It only panics
// under ErrorFail.
func (t *Template) MustRender() string {
	out, err := t.Render()
	if err != nil {
		panic(fmt.Sprintf("template: %v", err))
	}
	return out
}

// RenderContext evaluates each expression and concatenates the results
// with the literal runs. Values are formatted the way string
// concatenation formats them.
func (t *Template) RenderContext(ctx context.Context, ev databind.Event) (string, error) {
	var b strings.Builder
	for _, p := range t.parts {
		if p.expr == nil {
			b.WriteString(p.literal)
			continue
		}
		v, err := p.expr.EvaluateContext(ctx, ev)
		if err != nil {
			switch t.errorAction {
			case ErrorFail:
				return "", fmt.Errorf("render %s: %w", p.source, err)
			case ErrorKeep:
				b.WriteString(p.source)
			}
			continue
		}
		b.WriteString(expr.ToString(v))
	}
	return b.String(), nil
}

// Dependencies returns the distinct bound roots referenced by any
// expression, sorted.
func (t *Template) Dependencies() []string {
	var roots []string
	for _, p := range t.parts {
		if p.expr == nil {
			continue
		}
		for _, root := range p.expr.Dependencies() {
			if !slices.Contains(roots, root) {
				roots = append(roots, root)
			}
		}
	}
	slices.Sort(roots)
	return roots
}

// IsStatic reports whether the template contains no expressions.
func (t *Template) IsStatic() bool {
	for _, p := range t.parts {
		if p.expr != nil {
			return false
		}
	}
	return true
}

// NeedsRender reports whether any dependency is in dirty.
func (t *Template) NeedsRender(dirty []string) bool {
	for _, root := range t.Dependencies() {
		if slices.Contains(dirty, root) {
			return true
		}
	}
	return false
}
