/*
Package databind binds host Go values to named variables and evaluates
expressions against them.

# Overview

A Model owns a set of root bindings. Host code binds pointers into its own
memory; expressions read and write that memory through compiled bytecode.
The model never copies bound values, so changes made by the host are
visible to the next evaluation.

	type Invader struct {
	    Name   string
	    Damage []int
	}

	model := databind.New()
	h, _ := variable.RegisterStruct[Invader](model.Types())
	variable.Member(h, "name", func(i *Invader) *string { return &i.Name })
	variable.Member(h, "damage", func(i *Invader) *[]int { return &i.Damage })

	inv := Invader{Name: "drone", Damage: []int{3, 5}}
	_ = model.BindStruct("invader", &inv)

	e, _ := model.Compile("(invader.name | to_upper) + ': ' + invader.damage.size")
	v, _ := e.Evaluate() // "DRONE: 2"

# Expressions

Expressions support arithmetic, string concatenation with '+', comparison,
logical operators, the ternary operator and transforms applied with a pipe:

	price * count | format(2)
	enabled && count > 0 ? 'ready' : 'waiting'

Assignment expressions write back to bound variables and call event
callbacks registered with RegisterEventCallback:

	count = count + 1; notify(count)

The "ev" root reads the Event payload passed to EvaluateContext.

# Dirty Tracking

Writes through SetValue and assignment expressions mark the written root
dirty. Host code marks roots it changed itself with DirtyVariable. Update
hands the dirty set to subscribers and then clears it.

# Errors

Compile returns a *CompileError with the offending offset. Evaluation
returns a *RuntimeError. Failures to reach a variable are *ResolutionError
values; during evaluation they are logged and read as nil.

# Thread Safety

A Model is not safe for concurrent use. Compiled expressions share the
model they were compiled against.
*/
package databind
