package generation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsroom-ai-api/internal/config"
	"newsroom-ai-api/internal/domain/entity"
)

func testSettings(maxPromptChars int) *config.RuntimeSettings {
	return config.NewRuntimeSettings(&config.GenerationConfig{MaxPromptChars: maxPromptChars})
}

func fullVariables() map[string]string {
	return map[string]string{
		"title":        "City Council Approves New Budget",
		"body":         "The council voted 7-2 in favor of the proposal on Tuesday evening.",
		"author":       "Jordan Reyes",
		"section":      "Local Politics",
		"channel_kind": "digital",
		"channel_name": "Website",
		"date":         "15/03/2026",
		"topic":        "Local Politics",
	}
}

func TestResolveSubstitutesAllVariables(t *testing.T) {
	resolver := NewTemplateResolver(testSettings(50000))

	tpl := &entity.Template{Fragments: []entity.TemplateFragment{
		{Content: "Rewrite the article titled {title} by {author}.", SortOrder: 0},
		{Content: "Full text:\n{body}", SortOrder: 1},
	}}

	out, err := resolver.Resolve(tpl, fullVariables())
	require.NoError(t, err)

	assert.Contains(t, out, "City Council Approves New Budget")
	assert.Contains(t, out, "Jordan Reyes")
	assert.Contains(t, out, "voted 7-2")
	assert.NotRegexp(t, `\{[a-zA-Z_][a-zA-Z0-9_]*\}`, out)
}

func TestResolveConcatenatesFragmentsInOrder(t *testing.T) {
	resolver := NewTemplateResolver(testSettings(50000))

	tpl := &entity.Template{Fragments: []entity.TemplateFragment{
		{Content: "second part goes after the first", SortOrder: 5},
		{Content: "first part of the template text", SortOrder: 1},
	}}

	out, err := resolver.Resolve(tpl, fullVariables())
	require.NoError(t, err)
	assert.Less(t, strings.Index(out, "first part"), strings.Index(out, "second part"))
}

func TestResolveFailsOnMissingVariable(t *testing.T) {
	resolver := NewTemplateResolver(testSettings(50000))

	tpl := &entity.Template{Fragments: []entity.TemplateFragment{
		{Content: "Rewrite {title} focused on {audience} with angle {angle}.", SortOrder: 0},
	}}

	_, err := resolver.Resolve(tpl, fullVariables())
	require.Error(t, err)

	var missing *MissingVariableError
	require.ErrorAs(t, err, &missing)
	assert.ElementsMatch(t, []string{"audience", "angle"}, missing.Names)
}

func TestResolveUsesDefaultTemplateWhenFragmentsTooShort(t *testing.T) {
	resolver := NewTemplateResolver(testSettings(50000))

	tpl := &entity.Template{Fragments: []entity.TemplateFragment{{Content: "hi", SortOrder: 0}}}

	out, err := resolver.Resolve(tpl, fullVariables())
	require.NoError(t, err)

	// 默认模板包含全部必需占位符，替换后标题和正文都应出现
	assert.Contains(t, out, "City Council Approves New Budget")
	assert.Contains(t, out, "voted 7-2")
	assert.Contains(t, out, "digital")
}

func TestResolveRespectsPromptCeiling(t *testing.T) {
	resolver := NewTemplateResolver(testSettings(100))

	vars := fullVariables()
	vars["body"] = strings.Repeat("lorem ipsum dolor sit amet ", 200)

	tpl := &entity.Template{Fragments: []entity.TemplateFragment{
		{Content: "Rewrite the article titled {title} using the text below.\n{body}", SortOrder: 0},
	}}

	out, err := resolver.Resolve(tpl, vars)
	require.NoError(t, err)
	assert.LessOrEqual(t, len([]rune(out)), 100)
}

func TestResolveCeilingFollowsRuntimeOverride(t *testing.T) {
	settings := testSettings(50000)
	resolver := NewTemplateResolver(settings)

	tpl := &entity.Template{Fragments: []entity.TemplateFragment{
		{Content: "Rewrite the article titled {title}.\n{body}", SortOrder: 0},
	}}

	settings.SetMaxPromptChars(40)
	out, err := resolver.Resolve(tpl, fullVariables())
	require.NoError(t, err)
	assert.LessOrEqual(t, len([]rune(out)), 40)

	settings.ResetMaxPromptChars()
	out, err = resolver.Resolve(tpl, fullVariables())
	require.NoError(t, err)
	assert.Greater(t, len([]rune(out)), 40)
}
