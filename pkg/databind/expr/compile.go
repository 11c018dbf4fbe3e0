package expr

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/randalmurphal/databind/pkg/databind/address"
)

// AddressResolver turns variable text found in an expression into an
// Address. Returning an error fails the compile at that variable.
type AddressResolver func(text string) (address.Address, error)

// ParseOnly resolves variable text with address.Parse and nothing else.
func ParseOnly(text string) (address.Address, error) {
	addr := address.Parse(text)
	if addr == nil {
		return nil, fmt.Errorf("invalid variable address %q", text)
	}
	return addr, nil
}

// Compile compiles a value expression into a Program and the addresses its
// Variable instructions refer to.
//
// Grammar (lowest precedence first):
//
//	expr       := ternary
//	ternary    := or ('?' expr ':' expr)?
//	or         := and ('||' and | '|' ident ('(' args ')')?)*
//	and        := equality ('&&' equality)*
//	equality   := relational (('=='|'!=') relational)*
//	relational := additive (('<'|'<='|'>'|'>=') additive)*
//	additive   := term (('+'|'-') term)*
//	term       := factor (('*'|'/') factor)*
//	factor     := '(' expr ')' | string | '!' factor | number | ident
//	args       := expr (',' expr)*
//
// On failure no Program is returned and the error is a *CompileError.
func Compile(text string, resolve AddressResolver) (Program, AddressList, error) {
	c := newCompiler(text, resolve)
	if err := c.parseExpr(); err != nil {
		return nil, nil, err
	}
	return c.finish()
}

// CompileAssignment compiles a statement list used by event handlers:
//
//	stmts := stmt (';' stmt)* ';'?
//	stmt  := ident '=' expr | ident '(' args? ')'
//
// Assignments write to the addressed variable; calls invoke the named
// event callback. The Program's final R is the last assigned value.
func CompileAssignment(text string, resolve AddressResolver) (Program, AddressList, error) {
	c := newCompiler(text, resolve)
	for {
		if err := c.parseStatement(); err != nil {
			return nil, nil, err
		}
		c.skipSpace()
		if !c.match(';') {
			break
		}
		c.skipSpace()
		if c.done() {
			break
		}
	}
	return c.finish()
}

type compiler struct {
	src       string
	pos       int
	resolve   AddressResolver
	program   Program
	addresses AddressList
	// depth counts values pushed but not yet popped at emission time.
	depth int
}

func newCompiler(text string, resolve AddressResolver) *compiler {
	if resolve == nil {
		resolve = ParseOnly
	}
	return &compiler{src: text, resolve: resolve}
}

func (c *compiler) finish() (Program, AddressList, error) {
	c.skipSpace()
	if !c.done() {
		return nil, nil, c.errorf("unexpected character %q", c.peek())
	}
	if c.depth != 0 {
		return nil, nil, c.errorf("unbalanced stack: %d values left after compile", c.depth)
	}
	if len(c.program) == 0 {
		return nil, nil, c.errorf("empty expression")
	}
	return c.program, c.addresses, nil
}

func (c *compiler) errorf(format string, args ...any) *CompileError {
	return &CompileError{
		Expression: c.src,
		Position:   c.pos,
		Message:    fmt.Sprintf(format, args...),
	}
}

// Cursor helpers.

func (c *compiler) done() bool { return c.pos >= len(c.src) }

func (c *compiler) peek() byte {
	if c.done() {
		return 0
	}
	return c.src[c.pos]
}

func (c *compiler) peekAt(offset int) byte {
	if c.pos+offset >= len(c.src) {
		return 0
	}
	return c.src[c.pos+offset]
}

func (c *compiler) skipSpace() {
	for !c.done() && isSpace(c.peek()) {
		c.pos++
	}
}

func (c *compiler) match(ch byte) bool {
	if c.peek() == ch {
		c.pos++
		return true
	}
	return false
}

func (c *compiler) matchString(s string) bool {
	if strings.HasPrefix(c.src[c.pos:], s) {
		c.pos += len(s)
		return true
	}
	return false
}

func (c *compiler) expect(ch byte) error {
	c.skipSpace()
	if !c.match(ch) {
		if c.done() {
			return c.errorf("expected %q but reached end of expression", ch)
		}
		return c.errorf("expected %q but found %q", ch, c.peek())
	}
	return nil
}

// Emission.

func (c *compiler) emit(op Opcode, data Value) {
	c.program = append(c.program, Instruction{Op: op, Data: data})
}

func (c *compiler) push() {
	c.depth++
	c.emit(OpPush, nil)
}

func (c *compiler) pop(r Register) error {
	if c.depth <= 0 {
		return c.errorf("internal stack underflow")
	}
	c.depth--
	c.emit(OpPop, r)
	return nil
}

func (c *compiler) arguments(n int) error {
	if n > c.depth {
		return c.errorf("internal stack underflow")
	}
	c.depth -= n
	c.emit(OpArguments, n)
	return nil
}

func (c *compiler) variable(text string, at int) (int, error) {
	addr, err := c.resolve(text)
	if err != nil || !addr.Valid() {
		msg := fmt.Sprintf("invalid variable %q", text)
		if err != nil {
			msg = err.Error()
		}
		return 0, &CompileError{Expression: c.src, Position: at, Message: msg}
	}
	c.addresses = append(c.addresses, addr)
	return len(c.addresses) - 1, nil
}

// binary compiles "left op right" once left is in R: the left operand is
// saved on the stack while the right operand is compiled.
func (c *compiler) binary(op Opcode, right func() error) error {
	c.push()
	if err := right(); err != nil {
		return err
	}
	if err := c.pop(RegL); err != nil {
		return err
	}
	c.emit(op, nil)
	return nil
}

// Grammar.

func (c *compiler) parseExpr() error {
	return c.parseTernary()
}

func (c *compiler) parseTernary() error {
	if err := c.parseOr(); err != nil {
		return err
	}
	c.skipSpace()
	if !c.match('?') {
		return nil
	}
	c.push()
	if err := c.parseExpr(); err != nil {
		return err
	}
	c.push()
	if err := c.expect(':'); err != nil {
		return err
	}
	if err := c.parseExpr(); err != nil {
		return err
	}
	if err := c.pop(RegC); err != nil {
		return err
	}
	if err := c.pop(RegL); err != nil {
		return err
	}
	c.emit(OpTernary, nil)
	return nil
}

func (c *compiler) parseOr() error {
	if err := c.parseAnd(); err != nil {
		return err
	}
	for {
		c.skipSpace()
		switch {
		case c.matchString("||"):
			if err := c.binary(OpOr, c.parseAnd); err != nil {
				return err
			}
		case c.match('|'):
			if err := c.parsePipe(); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

// parsePipe compiles "| name(args)" with the piped value in R.
// The piped value is parked on the stack while arguments are compiled.
func (c *compiler) parsePipe() error {
	c.skipSpace()
	name := c.identifier()
	if name == "" {
		return c.errorf("expected transform name after '|'")
	}

	c.skipSpace()
	if c.peek() != '(' {
		c.emit(OpTransform, name)
		return nil
	}

	c.push()
	n, err := c.parseArgs()
	if err != nil {
		return err
	}
	if n > 0 {
		if err := c.arguments(n); err != nil {
			return err
		}
	}
	if err := c.pop(RegR); err != nil {
		return err
	}
	c.emit(OpTransform, name)
	return nil
}

// parseArgs compiles "(expr, expr, ...)", pushing each argument.
func (c *compiler) parseArgs() (int, error) {
	if err := c.expect('('); err != nil {
		return 0, err
	}
	c.skipSpace()
	if c.match(')') {
		return 0, nil
	}
	n := 0
	for {
		if err := c.parseExpr(); err != nil {
			return 0, err
		}
		c.push()
		n++
		c.skipSpace()
		if c.match(',') {
			continue
		}
		if err := c.expect(')'); err != nil {
			return 0, err
		}
		return n, nil
	}
}

func (c *compiler) parseAnd() error {
	if err := c.parseEquality(); err != nil {
		return err
	}
	for {
		c.skipSpace()
		if !c.matchString("&&") {
			return nil
		}
		if err := c.binary(OpAnd, c.parseEquality); err != nil {
			return err
		}
	}
}

func (c *compiler) parseEquality() error {
	if err := c.parseRelational(); err != nil {
		return err
	}
	for {
		c.skipSpace()
		var op Opcode
		switch {
		case c.matchString("=="):
			op = OpEqual
		case c.matchString("!="):
			op = OpNotEqual
		default:
			return nil
		}
		if err := c.binary(op, c.parseRelational); err != nil {
			return err
		}
	}
}

func (c *compiler) parseRelational() error {
	if err := c.parseAdditive(); err != nil {
		return err
	}
	for {
		c.skipSpace()
		var op Opcode
		switch {
		case c.matchString("<="):
			op = OpLessEq
		case c.matchString(">="):
			op = OpGreaterEq
		case c.match('<'):
			op = OpLess
		case c.match('>'):
			op = OpGreater
		default:
			return nil
		}
		if err := c.binary(op, c.parseAdditive); err != nil {
			return err
		}
	}
}

func (c *compiler) parseAdditive() error {
	if err := c.parseTerm(); err != nil {
		return err
	}
	for {
		c.skipSpace()
		var op Opcode
		switch {
		case c.match('+'):
			op = OpAdd
		case c.match('-'):
			op = OpSubtract
		default:
			return nil
		}
		if err := c.binary(op, c.parseTerm); err != nil {
			return err
		}
	}
}

func (c *compiler) parseTerm() error {
	if err := c.parseFactor(); err != nil {
		return err
	}
	for {
		c.skipSpace()
		var op Opcode
		switch {
		case c.match('*'):
			op = OpMultiply
		case c.match('/'):
			op = OpDivide
		default:
			return nil
		}
		if err := c.binary(op, c.parseFactor); err != nil {
			return err
		}
	}
}

func (c *compiler) parseFactor() error {
	c.skipSpace()
	if c.done() {
		return c.errorf("unexpected end of expression")
	}

	ch := c.peek()
	switch {
	case ch == '(':
		c.pos++
		if err := c.parseExpr(); err != nil {
			return err
		}
		return c.expect(')')
	case ch == '\'':
		return c.parseString()
	case ch == '!':
		c.pos++
		if err := c.parseFactor(); err != nil {
			return err
		}
		c.emit(OpNot, nil)
		return nil
	case isDigit(ch) || ((ch == '-' || ch == '.') && (isDigit(c.peekAt(1)) || c.peekAt(1) == '.')):
		return c.parseNumber()
	case isAlpha(ch):
		return c.parseVariable()
	default:
		return c.errorf("unexpected character %q", ch)
	}
}

func (c *compiler) parseString() error {
	start := c.pos
	c.pos++ // opening quote
	var b strings.Builder
	for {
		if c.done() {
			c.pos = start
			return c.errorf("unterminated string literal")
		}
		ch := c.src[c.pos]
		c.pos++
		switch ch {
		case '\'':
			c.emit(OpLiteral, b.String())
			return nil
		case '\\':
			if c.done() {
				c.pos = start
				return c.errorf("unterminated string literal")
			}
			b.WriteByte(c.src[c.pos])
			c.pos++
		default:
			b.WriteByte(ch)
		}
	}
}

func (c *compiler) parseNumber() error {
	start := c.pos
	c.match('-')
	for !c.done() && (isDigit(c.peek()) || c.peek() == '.') {
		c.pos++
	}
	if c.peek() == 'e' || c.peek() == 'E' {
		c.pos++
		if c.peek() == '+' || c.peek() == '-' {
			c.pos++
		}
		for !c.done() && isDigit(c.peek()) {
			c.pos++
		}
	}
	text := c.src[start:c.pos]
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		c.pos = start
		return c.errorf("invalid number %q", text)
	}
	c.emit(OpLiteral, f)
	return nil
}

// parseVariable compiles an identifier, keyword or variable path.
func (c *compiler) parseVariable() error {
	start := c.pos
	text := c.variableText()
	switch text {
	case "true":
		c.emit(OpLiteral, true)
		return nil
	case "false":
		c.emit(OpLiteral, false)
		return nil
	}

	c.skipSpace()
	if c.peek() == '(' {
		return c.errorf("function calls must use the pipe syntax: value | %s(...)", text)
	}

	idx, err := c.variable(text, start)
	if err != nil {
		return err
	}
	c.emit(OpVariable, idx)
	return nil
}

func (c *compiler) parseStatement() error {
	c.skipSpace()
	start := c.pos
	if !isAlpha(c.peek()) {
		if c.done() {
			return c.errorf("expected assignment or event call but reached end of expression")
		}
		return c.errorf("expected assignment or event call but found %q", c.peek())
	}
	text := c.variableText()
	c.skipSpace()

	switch {
	case c.peek() == '(':
		if address.Parse(text) == nil || strings.ContainsAny(text, ".[") {
			c.pos = start
			return c.errorf("invalid event callback name %q", text)
		}
		n, err := c.parseArgs()
		if err != nil {
			return err
		}
		if n > 0 {
			if err := c.arguments(n); err != nil {
				return err
			}
		}
		c.emit(OpEventFnc, text)
		return nil
	case c.peek() == '=' && c.peekAt(1) != '=':
		c.pos++
		idx, err := c.variable(text, start)
		if err != nil {
			return err
		}
		if err := c.parseExpr(); err != nil {
			return err
		}
		c.emit(OpAssign, idx)
		return nil
	default:
		return c.errorf("expected '=' or '(' after %q", text)
	}
}

// identifier consumes [A-Za-z][A-Za-z0-9_]*.
func (c *compiler) identifier() string {
	start := c.pos
	if !isAlpha(c.peek()) {
		return ""
	}
	for !c.done() && (isAlpha(c.peek()) || isDigit(c.peek()) || c.peek() == '_') {
		c.pos++
	}
	return c.src[start:c.pos]
}

// variableText consumes the characters a variable path may contain.
// Validation is left to the AddressResolver.
func (c *compiler) variableText() string {
	start := c.pos
	for !c.done() && isVariableChar(c.peek()) {
		c.pos++
	}
	return c.src[start:c.pos]
}

func isVariableChar(ch byte) bool {
	return isAlpha(ch) || isDigit(ch) || ch == '_' || ch == '.' || ch == '[' || ch == ']'
}

func isAlpha(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}
