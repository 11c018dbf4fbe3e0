package snapshot

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/randalmurphal/databind/pkg/databind"
)

// Version is the current snapshot format version.
const Version = 1

// Snapshot is a set of variable values read from a model.
type Snapshot struct {
	Version   int                       `json:"version"`
	Scope     string                    `json:"scope"`
	Name      string                    `json:"name"`
	ModelID   string                    `json:"model_id"`
	Timestamp time.Time                 `json:"timestamp"`
	Values    map[string]databind.Value `json:"values"`
}

// Capture reads each address from m. Every address must resolve to a
// scalar value; the first failure aborts the capture.
func Capture(m *databind.Model, scope, name string, addrs ...string) (*Snapshot, error) {
	values := make(map[string]databind.Value, len(addrs))
	for _, addr := range addrs {
		v, err := m.GetValue(addr)
		if err != nil {
			return nil, fmt.Errorf("capture %s: %w", addr, err)
		}
		values[addr] = v
	}
	return &Snapshot{
		Version:   Version,
		Scope:     scope,
		Name:      name,
		ModelID:   m.ID(),
		Timestamp: time.Now().UTC(),
		Values:    values,
	}, nil
}

// Restore writes every captured value back into m in address order.
// Written roots are marked dirty. Values written before a failure stay
// written.
func (s *Snapshot) Restore(m *databind.Model) error {
	if s.Version != Version {
		return fmt.Errorf("%w: got %d, want %d", ErrVersionMismatch, s.Version, Version)
	}
	for _, addr := range slices.Sorted(maps.Keys(s.Values)) {
		if err := m.SetValue(addr, s.Values[addr]); err != nil {
			return fmt.Errorf("restore %s: %w", addr, err)
		}
	}
	return nil
}

// Marshal serializes a snapshot to JSON.
func (s *Snapshot) Marshal() ([]byte, error) {
	return json.Marshal(s)
}

// Unmarshal deserializes a snapshot from JSON.
// JSON numbers decode as float64; Restore converts them to the bound type.
func Unmarshal(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Save encodes s and stores it under its scope and name.
func Save(store Store, s *Snapshot) error {
	data, err := s.Marshal()
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	return store.Save(s.Scope, s.Name, data)
}

// Load fetches and decodes a snapshot.
func Load(store Store, scope, name string) (*Snapshot, error) {
	data, err := store.Load(scope, name)
	if err != nil {
		return nil, err
	}
	s, err := Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return s, nil
}
