package logutils

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeferredWriter_PassThrough(t *testing.T) {
	var out bytes.Buffer
	d := &DeferredWriter{Out: &out}

	n, err := d.Write([]byte("now"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, "now", out.String())
}

func TestDeferredWriter_Hold(t *testing.T) {
	t.Run("buffers until release", func(t *testing.T) {
		var out bytes.Buffer
		d := &DeferredWriter{Out: &out}
		d.Hold()

		n, err := d.Write([]byte("hello "))
		require.NoError(t, err)
		assert.Equal(t, 6, n)
		_, err = d.Write([]byte("world"))
		require.NoError(t, err)
		assert.Empty(t, out.String())

		require.NoError(t, d.Release())
		assert.Equal(t, "hello world", out.String())

		_, _ = d.Write([]byte("!"))
		assert.Equal(t, "hello world!", out.String(), "writes pass through after release")
	})

	t.Run("concurrent writes are safe", func(t *testing.T) {
		var out bytes.Buffer
		d := &DeferredWriter{Out: &out}
		d.Hold()

		var wg sync.WaitGroup
		for range 100 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _ = d.Write([]byte("x"))
			}()
		}
		wg.Wait()

		require.NoError(t, d.Release())
		assert.Len(t, out.String(), 100)
	})

	t.Run("discards past the limit", func(t *testing.T) {
		var out bytes.Buffer
		d := &DeferredWriter{Out: &out, Limit: 4}
		d.Hold()

		_, err := d.Write([]byte("abc"))
		require.NoError(t, err)

		n, err := d.Write([]byte("def"))
		require.NoError(t, err)
		assert.Equal(t, 3, n, "discarded writes still report success")
		assert.Equal(t, 1, d.Dropped())

		require.NoError(t, d.Release())
		assert.Equal(t, "abc(1 log writes discarded)\n", out.String())
		assert.Zero(t, d.Dropped())
	})

	t.Run("empty release writes nothing", func(t *testing.T) {
		var out bytes.Buffer
		d := &DeferredWriter{Out: &out}
		d.Hold()

		require.NoError(t, d.Release())
		assert.Empty(t, out.String())
	})
}

func TestDeferredWriter_WithLogger(t *testing.T) {
	var out bytes.Buffer
	d := &DeferredWriter{Out: &out}
	logger := NewWith(d, zerolog.InfoLevel)

	d.Hold()
	logger.Debug().Msg("hidden")
	logger.Info().Str("cmp", "tui").Msg("visible")
	assert.Empty(t, out.String())

	require.NoError(t, d.Release())
	assert.Equal(t, 1, strings.Count(out.String(), "\n"))
	assert.Contains(t, out.String(), `"message":"visible"`)
}
