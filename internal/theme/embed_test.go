package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEmbeddedTheme_Default(t *testing.T) {
	data, found := GetEmbeddedTheme("default")
	require.True(t, found, "default theme should be found")
	assert.Contains(t, data, "[popup]")
	assert.Contains(t, data, "[button_focused]")
	assert.NotContains(t, data, "extends")
}

func TestGetEmbeddedTheme_ExtendDefault(t *testing.T) {
	for _, name := range []string{"minimal", "catppuccin"} {
		data, found := GetEmbeddedTheme(name)
		require.True(t, found, name)
		assert.Contains(t, data, `extends = "default"`, name)
	}
}

func TestGetEmbeddedTheme_NotFound(t *testing.T) {
	data, found := GetEmbeddedTheme("nonexistent")
	assert.False(t, found)
	assert.Empty(t, data)
}

func TestListEmbeddedThemes(t *testing.T) {
	themes := ListEmbeddedThemes()
	assert.ElementsMatch(t, BundledThemes, themes)
}

func TestBundledThemesValidate(t *testing.T) {
	for _, name := range ListEmbeddedThemes() {
		t.Run(name, func(t *testing.T) {
			th, err := newEmbeddedTheme(name)
			require.NoError(t, err)
			assert.NoError(t, th.Validate())
			assert.Equal(t, name == DefaultThemeName, th.IsDefault)
		})
	}
}

func TestIsEmbeddedTheme(t *testing.T) {
	assert.True(t, IsEmbeddedTheme("default"))
	assert.True(t, IsEmbeddedTheme("minimal"))
	assert.False(t, IsEmbeddedTheme("nonexistent"))
}
