package address

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Valid(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Address
	}{
		{"single name", "count", Address{Named("count")}},
		{"member", "data.x", Address{Named("data"), Named("x")}},
		{"index", "data.magic[3]", Address{Named("data"), Named("magic"), Indexed(3)}},
		{"nested index", "grid[1][2]", Address{Named("grid"), Indexed(1), Indexed(2)}},
		{"index then member", "items[0].price", Address{Named("items"), Indexed(0), Named("price")}},
		{"size keyword", "items.size", Address{Named("items"), Named("size")}},
		{"underscore and digits", "my_var2.a_b", Address{Named("my_var2"), Named("a_b")}},
		{"surrounding whitespace", "  a.b  ", Address{Named("a"), Named("b")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.text)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.Valid())
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	tests := []string{
		"",
		"1abc",
		"_lead",
		"[0]",
		"a[",
		"a[]",
		"a[x]",
		"a[-1]",
		"a[1",
		"a]",
		"a.",
		"a..b",
		"a.1",
		"a b",
		"a[99999999999999999999]",
	}

	for _, text := range tests {
		t.Run(text, func(t *testing.T) {
			assert.Nil(t, Parse(text))
		})
	}
}

func TestAddress_String(t *testing.T) {
	for _, text := range []string{"a", "a.b", "a[1].b", "a.b[2][3]"} {
		assert.Equal(t, text, Parse(text).String())
	}
}

func TestAddress_Root(t *testing.T) {
	assert.Equal(t, "data", Parse("data.magic[1]").Root())
	assert.Equal(t, "", Address(nil).Root())
	assert.Equal(t, "", Address{Indexed(0)}.Root())
}

func TestAddress_ChildDoesNotAlias(t *testing.T) {
	base := make(Address, 1, 4)
	base[0] = Named("a")

	x := base.Child(Named("x"))
	y := base.Child(Named("y"))

	assert.Equal(t, "a.x", x.String())
	assert.Equal(t, "a.y", y.String())
}
