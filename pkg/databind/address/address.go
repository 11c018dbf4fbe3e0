// Package address parses and represents paths into bound host data.
//
// An Address is an ordered, root-to-leaf list of entries. Each entry is
// either a member name or an integer index:
//
//	data.magic[3]   -> [name:data] [name:magic] [index:3]
//	items.size      -> [name:items] [name:size]
//
// The first entry is always a name; it is the key used to look up the
// root binding in a data model.
package address

import (
	"strconv"
	"strings"
)

// Entry is one step of an Address: a member name, or an index when Name is empty.
type Entry struct {
	Name  string
	Index int
}

// Named returns a name entry.
func Named(name string) Entry {
	return Entry{Name: name}
}

// Indexed returns an index entry.
func Indexed(i int) Entry {
	return Entry{Index: i}
}

// IsIndex reports whether the entry addresses an element by position.
func (e Entry) IsIndex() bool {
	return e.Name == ""
}

// String returns the entry as it would appear in source text.
func (e Entry) String() string {
	if e.IsIndex() {
		return "[" + strconv.Itoa(e.Index) + "]"
	}
	return e.Name
}

// Address is a parsed variable path. A nil Address signals a parse failure.
type Address []Entry

// Root returns the root binding name, or "" for an invalid address.
func (a Address) Root() string {
	if !a.Valid() {
		return ""
	}
	return a[0].Name
}

// Valid reports whether the address is non-empty and starts with a name.
func (a Address) Valid() bool {
	return len(a) > 0 && !a[0].IsIndex()
}

// Child returns a copy of a extended by one entry.
func (a Address) Child(e Entry) Address {
	out := make(Address, len(a), len(a)+1)
	copy(out, a)
	return append(out, e)
}

// String renders the address back to dotted/bracketed form.
func (a Address) String() string {
	var b strings.Builder
	for i, e := range a {
		if i > 0 && !e.IsIndex() {
			b.WriteByte('.')
		}
		b.WriteString(e.String())
	}
	return b.String()
}

// Parse parses text of the form ident ('.' ident | '[' integer ']')*.
// Malformed input yields nil; Parse never panics.
func Parse(text string) Address {
	s := scanner{src: strings.TrimSpace(text)}
	name, ok := s.ident()
	if !ok {
		return nil
	}
	addr := Address{Named(name)}

	for !s.done() {
		switch s.peek() {
		case '.':
			s.pos++
			name, ok := s.ident()
			if !ok {
				return nil
			}
			addr = append(addr, Named(name))
		case '[':
			s.pos++
			idx, ok := s.index()
			if !ok {
				return nil
			}
			addr = append(addr, Indexed(idx))
		default:
			return nil
		}
	}
	return addr
}

type scanner struct {
	src string
	pos int
}

func (s *scanner) done() bool { return s.pos >= len(s.src) }

func (s *scanner) peek() byte { return s.src[s.pos] }

func (s *scanner) ident() (string, bool) {
	start := s.pos
	if s.done() || !isAlpha(s.peek()) {
		return "", false
	}
	for !s.done() && (isAlpha(s.peek()) || isDigit(s.peek()) || s.peek() == '_') {
		s.pos++
	}
	return s.src[start:s.pos], true
}

// index consumes digits up to and including the closing bracket.
func (s *scanner) index() (int, bool) {
	start := s.pos
	for !s.done() && isDigit(s.peek()) {
		s.pos++
	}
	if s.pos == start || s.done() || s.peek() != ']' {
		return 0, false
	}
	n, err := strconv.Atoi(s.src[start:s.pos])
	if err != nil {
		return 0, false
	}
	s.pos++
	return n, true
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
