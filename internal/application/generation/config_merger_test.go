package generation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeReplaceIgnoresStyleEntirely(t *testing.T) {
	merger := NewConfigMerger()

	styleCfg := map[string]any{"tone": "formal", "max_characters": 900}
	channelCfg := map[string]any{"merge_mode": "replace", "allow_emojis": false, "hashtags": true}

	result := merger.Merge(styleCfg, channelCfg)

	assert.Equal(t, map[string]any{"allow_emojis": false, "hashtags": true}, result.Merged)
	assert.NotContains(t, result.Merged, "merge_mode")
}

func TestMergeDefaultShallowChannelWins(t *testing.T) {
	merger := NewConfigMerger()

	styleCfg := map[string]any{"tone": "formal", "length": "long"}
	channelCfg := map[string]any{"tone": "casual", "allow_emojis": true}

	result := merger.Merge(styleCfg, channelCfg)

	assert.Equal(t, "casual", result.Merged["tone"])
	assert.Equal(t, "long", result.Merged["length"])
	assert.Equal(t, true, result.Merged["allow_emojis"])
	assert.Equal(t, "channel", result.Metadata.SourceMap["tone"])
	assert.Equal(t, "style", result.Metadata.SourceMap["length"])
}

func TestMergeMaxCharactersIsChannelExclusive(t *testing.T) {
	merger := NewConfigMerger()

	styleCfg := map[string]any{"max_characters": 5000, "tone": "formal"}

	result := merger.Merge(styleCfg, map[string]any{"allow_emojis": true})
	assert.NotContains(t, result.Merged, "max_characters")

	result = merger.Merge(styleCfg, map[string]any{"max_characters": 280})
	assert.Equal(t, 280, result.Merged["max_characters"])
}

func TestMergeUnknownModeFallsBackToMerge(t *testing.T) {
	merger := NewConfigMerger()

	styleCfg := map[string]any{"tone": "formal"}
	channelCfg := map[string]any{"merge_mode": "overwrite", "length": "short"}

	result := merger.Merge(styleCfg, channelCfg)

	assert.Equal(t, "formal", result.Merged["tone"])
	assert.Equal(t, "short", result.Merged["length"])
	assert.NotContains(t, result.Merged, "merge_mode")
}

func TestCombineDeduplicatesLists(t *testing.T) {
	merger := NewConfigMerger()

	styleCfg := map[string]any{"banned_words": []any{"synergy", "leverage"}}
	channelCfg := map[string]any{"merge_mode": "combine", "banned_words": []any{"leverage", "pivot"}}

	result := merger.Merge(styleCfg, channelCfg)

	assert.Equal(t, []any{"synergy", "leverage", "pivot"}, result.Merged["banned_words"])
	assert.Equal(t, "combined_list", result.Metadata.SourceMap["banned_words"])
}

func TestCombineRecordsScalarConflicts(t *testing.T) {
	merger := NewConfigMerger()

	styleCfg := map[string]any{"tone": "formal"}
	channelCfg := map[string]any{"merge_mode": "combine", "tone": "playful"}

	result := merger.Merge(styleCfg, channelCfg)

	assert.Equal(t, "playful", result.Merged["tone"])
	override, ok := result.Metadata.Overrides["tone"]
	require.True(t, ok)
	assert.Equal(t, "formal", override.Style)
	assert.Equal(t, "playful", override.Channel)
}

func TestCombineRecursesNestedMaps(t *testing.T) {
	merger := NewConfigMerger()

	styleCfg := map[string]any{
		"formatting": map[string]any{"bullets": true, "emphasis": "bold"},
	}
	channelCfg := map[string]any{
		"merge_mode": "combine",
		"formatting": map[string]any{"emphasis": "italic", "links": false},
	}

	result := merger.Merge(styleCfg, channelCfg)

	nested, ok := result.Merged["formatting"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, nested["bullets"])
	assert.Equal(t, "italic", nested["emphasis"])
	assert.Equal(t, false, nested["links"])

	override, ok := result.Metadata.Overrides["formatting/emphasis"]
	require.True(t, ok)
	assert.Equal(t, "bold", override.Style)
	assert.Equal(t, "italic", override.Channel)
	assert.Equal(t, "style", result.Metadata.SourceMap["formatting/bullets"])
	assert.Equal(t, "channel", result.Metadata.SourceMap["formatting/links"])
}

func TestCombineMaxCharactersExclusivityStillApplies(t *testing.T) {
	merger := NewConfigMerger()

	styleCfg := map[string]any{"max_characters": 5000}
	channelCfg := map[string]any{"merge_mode": "combine", "tone": "neutral"}

	result := merger.Merge(styleCfg, channelCfg)
	assert.NotContains(t, result.Merged, "max_characters")
}
