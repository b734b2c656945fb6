package generation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProcessStripsEmojisOnlyWhenExplicitlyDisallowed(t *testing.T) {
	post := NewPostProcessor()
	text := "Big win 🎉 for the local team ⚽ tonight!"

	stripped := post.Process(text, map[string]any{"allow_emojis": false})
	assert.NotContains(t, stripped, "🎉")
	assert.NotContains(t, stripped, "⚽")
	assert.Contains(t, stripped, "Big win")

	// 未显式禁用时保留 emoji
	assert.Equal(t, text, post.Process(text, map[string]any{}))
	assert.Equal(t, text, post.Process(text, map[string]any{"allow_emojis": true}))
}

func TestProcessSmartTruncationPrefersSentenceBoundary(t *testing.T) {
	post := NewPostProcessor()
	text := "First sentence ends here. Second sentence keeps going well past the limit."

	out := post.Process(text, map[string]any{"max_characters": 40})

	assert.Equal(t, "First sentence ends here.", out)
}

func TestProcessSmartTruncationFallsBackToWhitespace(t *testing.T) {
	post := NewPostProcessor()
	text := "no periods anywhere just a stream of words flowing on and on"

	out := post.Process(text, map[string]any{"max_characters": 30})

	assert.LessOrEqual(t, len([]rune(out)), 30)
	assert.False(t, strings.HasSuffix(out, " "))
	// 在词边界断开，末尾应是完整的词
	assert.Contains(t, text, out)
}

func TestProcessSmartTruncationHardCutsWithoutBoundaries(t *testing.T) {
	post := NewPostProcessor()
	text := strings.Repeat("x", 100)

	out := post.Process(text, map[string]any{"max_characters": 25})
	assert.Equal(t, strings.Repeat("x", 25), out)
}

func TestProcessHardStrategyCutsAtExactLimit(t *testing.T) {
	post := NewPostProcessor()
	text := "First sentence ends here. Second sentence keeps going."

	out := post.Process(text, map[string]any{"max_characters": 30, "truncate_strategy": "hard"})
	assert.Equal(t, 30, len([]rune(out)))
}

func TestProcessTruncationIsIdempotent(t *testing.T) {
	post := NewPostProcessor()
	cfg := map[string]any{"max_characters": 40}
	text := "First sentence ends here. Second sentence keeps going well past the limit."

	once := post.Process(text, cfg)
	twice := post.Process(once, cfg)
	assert.Equal(t, once, twice)

	hardCfg := map[string]any{"max_characters": 40, "truncate_strategy": "hard"}
	once = post.Process(text, hardCfg)
	twice = post.Process(once, hardCfg)
	assert.Equal(t, once, twice)
}

func TestProcessIgnoresNonPositiveOrMissingLimit(t *testing.T) {
	post := NewPostProcessor()
	text := "text that is comfortably longer than nothing at all"

	assert.Equal(t, text, post.Process(text, map[string]any{}))
	assert.Equal(t, text, post.Process(text, map[string]any{"max_characters": 0}))
	assert.Equal(t, text, post.Process(text, map[string]any{"max_characters": -5}))
}

func TestProcessAcceptsJSONNumericLimit(t *testing.T) {
	post := NewPostProcessor()
	text := strings.Repeat("word ", 30)

	out := post.Process(text, map[string]any{"max_characters": float64(20)})
	assert.LessOrEqual(t, len([]rune(out)), 20)
}
