package fs_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/fwojciec/ctscrape"
	"github.com/fwojciec/ctscrape/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestEmitter_Emit(t *testing.T) {
	t.Parallel()

	t.Run("writes one JSON line per record with null for unresolved fields", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		e := fs.NewEmitter(&buf)

		require.NoError(t, e.Emit(context.Background(), ctscrape.TrialRecord{
			NCTID:      "NCT04368728",
			BriefTitle: "Vaccine Study",
			StartYear:  ptr(2020),
			Country:    ptr("USA"),
		}))
		require.NoError(t, e.Emit(context.Background(), ctscrape.TrialRecord{NCTID: "NCT00000001"}))

		assert.Equal(t,
			`{"nctId":"NCT04368728","briefTitle":"Vaccine Study","startYear":2020,"country":"USA"}`+"\n"+
				`{"nctId":"NCT00000001","briefTitle":"","startYear":null,"country":null}`+"\n",
			buf.String())
		assert.Equal(t, ctscrape.EmitStats{Emitted: 2}, e.Stats())
	})

	t.Run("skips duplicate identifiers", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		e := fs.NewEmitter(&buf)

		require.NoError(t, e.Emit(context.Background(), ctscrape.TrialRecord{NCTID: "NCT1", BriefTitle: "first"}))
		require.NoError(t, e.Emit(context.Background(), ctscrape.TrialRecord{NCTID: "NCT1", BriefTitle: "second"}))

		assert.Equal(t, 1, strings.Count(buf.String(), "\n"))
		assert.Contains(t, buf.String(), "first")
		assert.Equal(t, ctscrape.EmitStats{Emitted: 1, Duplicates: 1}, e.Stats())
	})

	t.Run("rejects record without identifier", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		e := fs.NewEmitter(&buf)

		err := e.Emit(context.Background(), ctscrape.TrialRecord{BriefTitle: "orphan"})

		assert.Equal(t, ctscrape.EINVALID, ctscrape.ErrorCode(err))
		assert.Empty(t, buf.String())
		assert.Equal(t, ctscrape.EmitStats{Invalid: 1}, e.Stats())
	})

	t.Run("returns write errors", func(t *testing.T) {
		t.Parallel()

		e := fs.NewEmitter(failingWriter{})

		err := e.Emit(context.Background(), ctscrape.TrialRecord{NCTID: "NCT1"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "disk full")
		assert.Equal(t, 0, e.Stats().Emitted)
	})

	t.Run("is safe for concurrent use", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		e := fs.NewEmitter(&buf)

		var wg sync.WaitGroup
		for i := range 50 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				id := "NCT" + strings.Repeat("1", 4+i%10)
				_ = e.Emit(context.Background(), ctscrape.TrialRecord{NCTID: id})
			}()
		}
		wg.Wait()

		stats := e.Stats()
		assert.Equal(t, 10, stats.Emitted)
		assert.Equal(t, 40, stats.Duplicates)
		assert.Equal(t, 10, strings.Count(buf.String(), "\n"))
	})

	t.Run("rejects emit after close", func(t *testing.T) {
		t.Parallel()

		e := fs.NewEmitter(&bytes.Buffer{})
		require.NoError(t, e.Close())

		assert.Error(t, e.Emit(context.Background(), ctscrape.TrialRecord{NCTID: "NCT1"}))
	})
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestOpenEmitter(t *testing.T) {
	t.Parallel()

	t.Run("creates empty file before anything is emitted", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "out", "trials.jsonl")

		e, err := fs.OpenEmitter(path)
		require.NoError(t, err)
		require.NoError(t, e.Close())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Empty(t, data)
	})

	t.Run("appends to an existing file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "trials.jsonl")
		require.NoError(t, os.WriteFile(path, []byte(`{"nctId":"NCT0"}`+"\n"), 0644))

		e, err := fs.OpenEmitter(path)
		require.NoError(t, err)
		require.NoError(t, e.Emit(context.Background(), ctscrape.TrialRecord{NCTID: "NCT1"}))
		require.NoError(t, e.Close())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		require.Len(t, lines, 2)
		assert.Contains(t, lines[1], "NCT1")
	})

	t.Run("close is idempotent", func(t *testing.T) {
		t.Parallel()

		e, err := fs.OpenEmitter(filepath.Join(t.TempDir(), "trials.jsonl"))
		require.NoError(t, err)

		require.NoError(t, e.Close())
		assert.NoError(t, e.Close())
	})

	t.Run("fails when parent is a file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		blocker := filepath.Join(dir, "blocker")
		require.NoError(t, os.WriteFile(blocker, nil, 0644))

		_, err := fs.OpenEmitter(filepath.Join(blocker, "trials.jsonl"))

		assert.Error(t, err)
	})
}
