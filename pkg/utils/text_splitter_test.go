package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitTextShortInputSingleChunk(t *testing.T) {
	chunks := SplitText("hello", 100, 10)
	assert.Equal(t, []string{"hello"}, chunks)
}

func TestSplitTextOverlapRepeatsBoundary(t *testing.T) {
	text := strings.Repeat("abcdefghij", 3) // 30 runes
	chunks := SplitText(text, 10, 4)

	require.True(t, len(chunks) > 1)
	for i := 1; i < len(chunks); i++ {
		prev := chunks[i-1]
		tail := prev[len(prev)-4:]
		assert.True(t, strings.HasPrefix(chunks[i], tail), "chunk %d should start with previous tail", i)
	}
}

func TestSplitTextCoversWholeInput(t *testing.T) {
	text := strings.Repeat("x", 95)
	chunks := SplitText(text, 40, 10)

	last := chunks[len(chunks)-1]
	assert.True(t, strings.HasSuffix(text, last))

	total := 0
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c), 40)
		total += len(c)
	}
	assert.GreaterOrEqual(t, total, len(text))
}

func TestSplitTextDegenerateOverlapStillAdvances(t *testing.T) {
	text := strings.Repeat("y", 25)
	chunks := SplitText(text, 10, 10) // overlap == chunkSize

	assert.Equal(t, []string{"yyyyyyyyyy", "yyyyyyyyyy", "yyyyy"}, chunks)
}
