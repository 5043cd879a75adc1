package slog_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/fwojciec/ctscrape"
	"github.com/fwojciec/ctscrape/mock"
	ctslog "github.com/fwojciec/ctscrape/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingEmitter(t *testing.T) {
	t.Parallel()

	t.Run("marks duplicates", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		var stats ctscrape.EmitStats
		inner := &mock.Emitter{
			EmitFn: func(context.Context, ctscrape.TrialRecord) error {
				stats.Duplicates++
				return nil
			},
			StatsFn: func() ctscrape.EmitStats { return stats },
		}

		err := ctslog.NewLoggingEmitter(inner, debugLogger(&buf)).
			Emit(context.Background(), ctscrape.TrialRecord{NCTID: "NCT7"})

		require.NoError(t, err)
		assert.Contains(t, buf.String(), "nct_id=NCT7")
		assert.Contains(t, buf.String(), "duplicate=true")
	})

	t.Run("warns on rejected record", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.Emitter{
			EmitFn: func(context.Context, ctscrape.TrialRecord) error {
				return ctscrape.Errorf(ctscrape.EINVALID, "trial record identifier required")
			},
			StatsFn: func() ctscrape.EmitStats { return ctscrape.EmitStats{} },
		}

		err := ctslog.NewLoggingEmitter(inner, debugLogger(&buf)).Emit(context.Background(), ctscrape.TrialRecord{})

		require.Error(t, err)
		assert.Contains(t, buf.String(), "level=WARN")
	})

	t.Run("logs final counts on close", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		closeCalled := false
		inner := &mock.Emitter{
			StatsFn: func() ctscrape.EmitStats { return ctscrape.EmitStats{Emitted: 4, Duplicates: 1} },
			CloseFn: func() error {
				closeCalled = true
				return nil
			},
		}

		require.NoError(t, ctslog.NewLoggingEmitter(inner, debugLogger(&buf)).Close())

		assert.True(t, closeCalled)
		assert.Contains(t, buf.String(), "emitted=4")
		assert.Contains(t, buf.String(), "duplicates=1")
	})
}
