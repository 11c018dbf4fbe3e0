/*
Package expr compiles data-binding expressions to bytecode and runs them.

# Overview

An expression such as

	count + 1
	data.magic[3] * 2
	price | format(2)
	enabled ? 'on' : 'off'

is compiled once into a Program (a flat instruction list) plus an
AddressList naming every variable it reads. The Program is then executed
by Run against an Environment any number of times. Compiled programs are
immutable and may be shared.

# Expression Syntax

	expr       := ternary
	ternary    := or ('?' expr ':' expr)?
	or         := and ('||' and | '|' ident ('(' args ')')?)*
	and        := equality ('&&' equality)*
	equality   := relational (('=='|'!=') relational)*
	relational := additive (('<'|'<='|'>'|'>=') additive)*
	additive   := term (('+'|'-') term)*
	term       := factor (('*'|'/') factor)*
	factor     := '(' expr ')' | string | '!' factor | number | ident

Strings are single-quoted; a backslash escapes the next character.
Numbers are parsed as float64 and may carry a leading '-'. There is no
unary minus operator.

# Operators

	+          Addition, or concatenation when either side is a string
	- * /      Numeric arithmetic
	== !=      String comparison if either side is a string, else numeric
	< <= > >=  Numeric comparison (strings are converted to numbers)
	&& || !    Logical, on truthiness
	? :        Ternary; both branches are always evaluated
	|          Pipe into a transform function

# Registers

The VM has three registers: R holds the current result, L the saved left
operand of a binary operator and C the true branch of a ternary. A value
stack holds operands across nested sub-expressions; Arguments moves the
top n stack values into the argument buffer consumed by Transform and
EventFnc.

# Transforms

"x | f(a, b)" calls f with input x and args [a, b]:

	e := expr.New(expr.WithTransform("twice", func(in expr.Value, _ []expr.Value) (expr.Value, error) {
	    return expr.ToFloat64(in) * 2, nil
	}))
	v, _ := e.Evaluate("n | twice", map[string]any{"n": 4}) // 8.0

# Truthiness

  - nil: false
  - bool: the boolean value
  - string: false if empty, true otherwise
  - numbers: false if zero, true otherwise
  - other types: true
*/
package expr
