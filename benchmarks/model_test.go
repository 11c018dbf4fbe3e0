package benchmarks

import (
	"context"
	"testing"
)

// BenchmarkGetValue measures parsing and resolving a textual address.
func BenchmarkGetValue(b *testing.B) {
	m, _ := newModel(b)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = m.GetValue("player.scores[42]")
	}
}

// BenchmarkSetValue measures a write that also marks the root dirty.
func BenchmarkSetValue(b *testing.B) {
	m, _ := newModel(b)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = m.SetValue("player.score", i)
	}
}

// BenchmarkUpdate measures one dirty cycle with a subscriber.
func BenchmarkUpdate(b *testing.B) {
	m, _ := newModel(b)
	m.Subscribe(func([]string) {})
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = m.DirtyVariable("player")
		m.Update(ctx)
	}
}
