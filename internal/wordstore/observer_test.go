package wordstore

import (
	"bytes"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstrumentReportsEvents(t *testing.T) {
	t.Parallel()
	stats := &Stats{}
	a := Instrument(&Heap{MaxWords: 64}, stats)

	words, err := a.Grow(nil, 10)
	require.NoError(t, err)
	_, err = a.Grow(words, 5) // no growth, no event
	require.NoError(t, err)
	_, err = a.Grow(words, 100)
	require.Error(t, err)
	a.Release(words)
	a.Release(nil)

	assert.Equal(t, int64(1), stats.Grows.Load())
	assert.Equal(t, int64(len(words)), stats.GrownWords.Load())
	assert.Equal(t, int64(1), stats.Failures.Load())
	assert.Equal(t, int64(len(words)), stats.ReleasedWords.Load())
}

func TestMultiObserver(t *testing.T) {
	t.Parallel()
	s1, s2 := &Stats{}, &Stats{}
	obs := Multi(s1, s2)
	obs.Grew(0, 8)
	obs.Failed(10, errors.New("boom"))
	obs.Released(8)

	for _, s := range []*Stats{s1, s2} {
		assert.Equal(t, int64(1), s.Grows.Load())
		assert.Equal(t, int64(8), s.GrownWords.Load())
		assert.Equal(t, int64(1), s.Failures.Load())
		assert.Equal(t, int64(8), s.ReleasedWords.Load())
	}
}

func TestLogObserver(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
	a := Instrument(&Heap{MaxWords: 8}, NewLogObserver(logger))

	words, err := a.Grow(nil, 4)
	require.NoError(t, err)
	_, err = a.Grow(words, 9)
	require.Error(t, err)

	out := buf.String()
	assert.Contains(t, out, `"component":"wordstore"`)
	assert.Contains(t, out, "storage grown")
	assert.Contains(t, out, "storage growth failed")
	assert.Contains(t, out, `"requested_words":9`)
}
