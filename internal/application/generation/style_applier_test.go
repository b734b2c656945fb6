package generation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"newsroom-ai-api/internal/domain/entity"
)

func TestApplyIncludesEveryDirectiveValue(t *testing.T) {
	applier := NewStyleApplier(testSettings(50000))

	style := &entity.Style{Directives: map[string]any{
		"tone":      "formal",
		"length":    "800 words",
		"audience":  "subscribers",
		"structure": "inverted pyramid",
	}}

	out := applier.Apply("base prompt text", style)

	assert.Contains(t, out, directivesHeading)
	for _, value := range []string{"formal", "800 words", "subscribers", "inverted pyramid"} {
		assert.Contains(t, out, value)
	}
}

func TestApplyDirectiveOrderingIsStable(t *testing.T) {
	applier := NewStyleApplier(testSettings(50000))

	style := &entity.Style{Directives: map[string]any{
		"audience":  "general public",
		"structure": "chronological",
		"tone":      "neutral",
		"brevity":   "high",
	}}

	out := applier.Apply("base prompt text", style)

	// tone、structure 优先于按字母序排列的其余键
	toneIdx := strings.Index(out, "- Tone:")
	structureIdx := strings.Index(out, "- Structure:")
	audienceIdx := strings.Index(out, "- Audience:")
	brevityIdx := strings.Index(out, "- Brevity:")

	assert.Less(t, toneIdx, structureIdx)
	assert.Less(t, structureIdx, audienceIdx)
	assert.Less(t, audienceIdx, brevityIdx)
}

func TestApplyAppendsOrderedStyleFragments(t *testing.T) {
	applier := NewStyleApplier(testSettings(50000))

	style := &entity.Style{Fragments: []entity.StyleFragment{
		{Content: "Example B: keep ledes under 30 words.", SortOrder: 2},
		{Content: "Example A: avoid passive voice.", SortOrder: 1},
	}}

	out := applier.Apply("base prompt text", style)

	assert.Contains(t, out, fragmentsHeading)
	assert.Less(t, strings.Index(out, "Example A"), strings.Index(out, "Example B"))
}

func TestApplyNilStyleReturnsTextUnchanged(t *testing.T) {
	applier := NewStyleApplier(testSettings(50000))
	assert.Equal(t, "base prompt text", applier.Apply("base prompt text", nil))
}

func TestApplyEmptyStyleAddsNoHeadings(t *testing.T) {
	applier := NewStyleApplier(testSettings(50000))

	out := applier.Apply("base prompt text", &entity.Style{})

	assert.NotContains(t, out, directivesHeading)
	assert.NotContains(t, out, fragmentsHeading)
}

func TestApplyRespectsPromptCeiling(t *testing.T) {
	applier := NewStyleApplier(testSettings(60))

	style := &entity.Style{Directives: map[string]any{"tone": strings.Repeat("verbose ", 50)}}

	out := applier.Apply("base prompt text", style)
	assert.LessOrEqual(t, len([]rune(out)), 60)
}
