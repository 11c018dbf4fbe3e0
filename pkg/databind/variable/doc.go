/*
Package variable gives the expression engine safe access to host memory.

A Definition describes how to read, write and navigate one shape of Go
data: scalars, struct members, slices and arrays, pointers, and values
produced by host functions. A Variable pairs a Definition with a location
(an addressable reflect.Value) inside host data.

Definitions are created once per Go type and kept in a Types registry:

	types := variable.NewTypes()

	h, _ := variable.RegisterStruct[Invoice](types)
	h.Field("total", "Total")
	variable.Member(h, "lines", func(i *Invoice) *[]Line { return &i.Lines })
	variable.MemberFunc(h, "tax", func(i *Invoice) float64 { return i.Total * 0.2 }, nil)

Scalar, slice, array and pointer definitions are derived on demand from
definitions already known; structs must be registered explicitly.

Variables are non-owning views. A Variable stays valid only while the host
value it points into is alive and has not been moved (for example by
appending to the slice that holds it).
*/
package variable
