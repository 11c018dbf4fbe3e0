/*
Package template interpolates data model expressions into text.

# Overview

A template is text containing expressions between "{{" and "}}". Each
expression is compiled once against a databind.Model; rendering evaluates
them and joins the results with the literal text:

	t, err := template.Compile("Score: {{ score }} ({{ score / max * 100 | format(1) }}%)", model)
	out, _ := t.Render() // "Score: 42 (84.0%)"

Values are formatted the same way string concatenation formats them, so
whole numbers print without a fractional part.

# Selective Rendering

Dependencies lists the bound roots a template reads. Subscribers can skip
templates whose roots were not dirtied:

	model.Subscribe(func(dirty []string) {
	    if t.NeedsRender(dirty) {
	        label.SetText(t.MustRender())
	    }
	})

# Errors

Malformed placeholders and expressions fail Compile with a
*databind.CompileError positioned within the whole text. Evaluation
failures are rendered according to the ErrorAction option:

	exp := template.NewExpander(model, template.WithErrorAction(template.ErrorKeep))

# Thread Safety

Templates share the model they were compiled against and are not safe
for concurrent use.
*/
package template
