package template

// ErrorAction specifies how an expression that fails at render time is
// rendered.
type ErrorAction int

const (
	// ErrorEmpty renders the failed expression as an empty string.
	// This is the default behavior.
	ErrorEmpty ErrorAction = iota

	// ErrorKeep renders the original placeholder text, delimiters included.
	ErrorKeep

	// ErrorFail stops rendering and returns the error.
	ErrorFail
)

// Default delimiters.
const (
	DefaultOpen  = "{{"
	DefaultClose = "}}"
)

// Option configures an Expander.
type Option func(*Expander)

// WithErrorAction sets how evaluation failures are rendered.
//
// Default: ErrorEmpty
//
// Example:
//
//	exp := template.NewExpander(model, template.WithErrorAction(template.ErrorFail))
//	_, err := exp.Expand("{{ name | nope }}", nil)
//	// err wraps databind.ErrUnknownTransform
func WithErrorAction(action ErrorAction) Option {
	return func(e *Expander) {
		e.errorAction = action
	}
}

// WithDelimiters replaces the "{{" and "}}" placeholder delimiters.
// Empty values are ignored.
//
// Example:
//
//	exp := template.NewExpander(model, template.WithDelimiters("[[", "]]"))
//	out, _ := exp.Expand("count: [[ count ]]", nil)
func WithDelimiters(open, close string) Option {
	return func(e *Expander) {
		if open != "" && close != "" {
			e.open, e.close = open, close
		}
	}
}
