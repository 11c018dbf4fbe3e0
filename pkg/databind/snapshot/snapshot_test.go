package snapshot_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/databind/pkg/databind"
	"github.com/randalmurphal/databind/pkg/databind/snapshot"
	"github.com/randalmurphal/databind/pkg/databind/variable"
)

type form struct {
	Name    string
	Age     int
	Opt     bool
	Ratings []float64
}

func newFormModel(t *testing.T, f *form) *databind.Model {
	t.Helper()
	m := databind.New()
	h, err := variable.RegisterStruct[form](m.Types())
	require.NoError(t, err)
	h.Field("name", "Name").Field("age", "Age").Field("opt", "Opt").Field("ratings", "Ratings")
	require.NoError(t, m.BindStruct("form", f))
	return m
}

func TestCaptureRestore_ThroughSQLite(t *testing.T) {
	store, err := snapshot.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer store.Close()

	src := &form{Name: "ada", Age: 36, Opt: true, Ratings: []float64{4.5, 3}}
	srcModel := newFormModel(t, src)

	snap, err := snapshot.Capture(srcModel, "settings", "draft",
		"form.name", "form.age", "form.opt", "form.ratings[0]")
	require.NoError(t, err)
	assert.Equal(t, srcModel.ID(), snap.ModelID)
	assert.Equal(t, snapshot.Version, snap.Version)
	require.NoError(t, snapshot.Save(store, snap))

	dst := &form{Ratings: []float64{0}}
	dstModel := newFormModel(t, dst)

	loaded, err := snapshot.Load(store, "settings", "draft")
	require.NoError(t, err)
	require.NoError(t, loaded.Restore(dstModel))

	assert.Equal(t, "ada", dst.Name)
	assert.Equal(t, 36, dst.Age)
	assert.True(t, dst.Opt)
	assert.Equal(t, 4.5, dst.Ratings[0])
	assert.True(t, dstModel.IsDirty("form"))
}

func TestCapture_UnresolvedAddress(t *testing.T) {
	m := newFormModel(t, &form{})
	_, err := snapshot.Capture(m, "s", "n", "form.name", "form.ratings[3]")
	assert.ErrorIs(t, err, databind.ErrIndexOutOfRange)
}

func TestRestore_VersionMismatch(t *testing.T) {
	m := newFormModel(t, &form{})
	snap := &snapshot.Snapshot{Version: snapshot.Version + 1, Values: map[string]databind.Value{"form.age": 1.0}}
	assert.ErrorIs(t, snap.Restore(m), snapshot.ErrVersionMismatch)
	assert.False(t, m.IsDirty("form"))
}

func TestRestore_Failure(t *testing.T) {
	f := &form{}
	m := newFormModel(t, f)
	snap := &snapshot.Snapshot{Version: snapshot.Version, Values: map[string]databind.Value{
		"form.age":  "not a number",
		"form.name": "kept",
	}}
	err := snap.Restore(m)
	assert.ErrorIs(t, err, databind.ErrTypeMismatch)
	assert.Equal(t, 0, f.Age)
}

func TestLoad_Errors(t *testing.T) {
	store := snapshot.NewMemoryStore()
	_, err := snapshot.Load(store, "s", "missing")
	assert.ErrorIs(t, err, snapshot.ErrNotFound)

	require.NoError(t, store.Save("s", "bad", []byte("{not json")))
	_, err = snapshot.Load(store, "s", "bad")
	assert.Error(t, err)
}
