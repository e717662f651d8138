package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/pclview/internal/cloud"
)

func TestStoreRecordLoad(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	rec, err := st.Create(RunMetadata{Points: 2, Seed: 42, Dt: 1, Gravity: 1e-9, Smooth: 1e-3, Backend: "cpu", Every: 5})
	require.NoError(t, err)
	assert.NotEmpty(t, rec.ID())

	frame0 := []cloud.Vertex{{X: 0.1, Y: -0.2, Z: 0.3, R: 200, G: 130, A: 255}, cloud.NewVertex(1, 1, 1)}
	frame1 := []cloud.Vertex{{X: 0.11, Y: -0.19, Z: 0.29, R: 200, G: 130, A: 255}, cloud.NewVertex(0.9, 0.9, 0.9)}
	require.NoError(t, rec.WriteFrame(0, frame0))
	require.NoError(t, rec.WriteFrame(5, frame1))
	require.NoError(t, rec.Close())
	require.NoError(t, rec.Close(), "second close is a no-op")

	meta, err := st.Load(rec.ID())
	require.NoError(t, err)
	assert.Equal(t, int64(42), meta.Seed)
	assert.Equal(t, 2, meta.Frames)
	assert.Equal(t, 5, meta.Steps)
	assert.Equal(t, "cpu", meta.Backend)

	frames, err := st.LoadFrames(rec.ID())
	require.NoError(t, err)
	require.Len(t, frames, 2)
	assert.Equal(t, 0, frames[0].Step)
	assert.Equal(t, 5, frames[1].Step)
	assert.Equal(t, frame0, frames[0].Points)
	assert.Equal(t, frame1, frames[1].Points)
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	for i, id := range []string{"b", "a"} {
		rec, err := st.Create(RunMetadata{ID: id, Timestamp: base.Add(time.Duration(i) * time.Minute)})
		require.NoError(t, err)
		require.NoError(t, rec.Close())
	}

	// incomplete run: no metadata
	require.NoError(t, os.MkdirAll(filepath.Join(st.Dir(), "partial"), 0755))

	runs, err := st.List()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "b", runs[0].ID)
	assert.Equal(t, "a", runs[1].ID)
}

func TestStoreList_MissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "nope"))
	runs, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestLoadFrames_Corrupt(t *testing.T) {
	st := New(t.TempDir())
	dir := filepath.Join(st.Dir(), "bad")
	require.NoError(t, os.MkdirAll(dir, 0755))
	data := "step,index,x,y,z,r,g,b,a\n0,0,1,2,3,300,0,0,255\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, framesFile), []byte(data), 0644))

	_, err := st.LoadFrames("bad")
	assert.True(t, errors.Is(err, ErrCorruptFrames), "got %v", err)
}

func TestLoadFrames_Empty(t *testing.T) {
	st := New(t.TempDir())
	rec, err := st.Create(RunMetadata{ID: "empty"})
	require.NoError(t, err)
	require.NoError(t, rec.Close())

	frames, err := st.LoadFrames("empty")
	require.NoError(t, err)
	assert.Empty(t, frames)
}

func TestRecorder_EmptyFrameNotCounted(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	rec, err := st.Create(RunMetadata{Every: 1})
	require.NoError(t, err)
	require.NoError(t, rec.WriteFrame(0, []cloud.Vertex{cloud.NewVertex(0, 0, 0)}))
	require.NoError(t, rec.WriteFrame(1, nil))
	require.NoError(t, rec.WriteFrame(2, []cloud.Vertex{cloud.NewVertex(1, 0, 0)}))
	require.NoError(t, rec.Close())

	meta, err := st.Load(rec.ID())
	require.NoError(t, err)
	frames, err := st.LoadFrames(rec.ID())
	require.NoError(t, err)

	assert.Equal(t, len(frames), meta.Frames, "metadata frame count matches stored frames")
	assert.Equal(t, 2, meta.Frames)
	assert.Equal(t, 2, meta.Steps)
}
