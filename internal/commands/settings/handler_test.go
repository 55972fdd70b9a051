package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aifusion/aifusionbot/internal/commands/cmdtest"
)

func TestSettingsShowsCurrentValues(t *testing.T) {
	h := cmdtest.NewHarness(t)
	h.Session().SetChatAPIKey("gsk-test")
	cmd := New(h.DI)

	err := cmd.Execute(cmdtest.CommandUpdate("settings", ""))
	require.NoError(t, err)

	out := h.Tg.LastText()
	assert.Contains(t, out, "0.5")
	assert.Contains(t, out, "1024")
	assert.Contains(t, out, h.L("settings.keySet", nil))
	assert.Contains(t, out, h.L("settings.keyNotSet", nil))
}

func TestTemperatureSetValid(t *testing.T) {
	h := cmdtest.NewHarness(t)
	cmd := NewTemperature(h.DI)

	err := cmd.Handle(cmdtest.CommandUpdate("temperature", "0.9"))
	require.NoError(t, err)

	assert.InDelta(t, 0.9, h.Session().Temperature(), 1e-9)
	assert.Equal(t, h.L("temperature.set", map[string]any{"Value": "0.9"}), h.Tg.LastText())
}

func TestTemperatureRejectsOutOfRange(t *testing.T) {
	h := cmdtest.NewHarness(t)
	cmd := NewTemperature(h.DI)

	for _, arg := range []string{"1.5", "-0.1", "abc"} {
		err := cmd.Handle(cmdtest.CommandUpdate("temperature", arg))
		require.NoError(t, err)
		assert.Equal(t, h.L("temperature.invalid", nil), h.Tg.LastText())
	}

	// value stays at the default
	assert.InDelta(t, 0.5, h.Session().Temperature(), 1e-9)
}

func TestTokensSetValid(t *testing.T) {
	h := cmdtest.NewHarness(t)
	cmd := NewTokens(h.DI)

	err := cmd.Handle(cmdtest.CommandUpdate("tokens", "2048"))
	require.NoError(t, err)

	assert.Equal(t, 2048, h.Session().MaxTokens())
}

func TestTokensRejectsOutOfRange(t *testing.T) {
	h := cmdtest.NewHarness(t)
	cmd := NewTokens(h.DI)

	for _, arg := range []string{"50", "5000", "xyz"} {
		err := cmd.Handle(cmdtest.CommandUpdate("tokens", arg))
		require.NoError(t, err)
		assert.Equal(t, h.L("tokens.invalid", nil), h.Tg.LastText())
	}

	assert.Equal(t, 1024, h.Session().MaxTokens())
}

func TestTemperatureRequiresArgument(t *testing.T) {
	h := cmdtest.NewHarness(t)
	cmd := NewTemperature(h.DI)

	err := cmd.Handle(cmdtest.CommandUpdate("temperature", ""))
	require.NoError(t, err)

	assert.Equal(t, h.L("temperature.usage", nil), h.Tg.LastText())
}
