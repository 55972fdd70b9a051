package enhance

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aifusion/aifusionbot/internal/commands/cmdtest"
)

func TestEnhanceRequiresKeyAndArgs(t *testing.T) {
	h := cmdtest.NewHarness(t)
	cmd := New(h.DI)

	require.NoError(t, cmd.Handle(cmdtest.CommandUpdate("enhance", "a cat")))
	assert.Equal(t, h.L("common.needChatKey", nil), h.Tg.LastText())

	h.Session().SetChatAPIKey("gsk-test")
	require.NoError(t, cmd.Handle(cmdtest.CommandUpdate("enhance", "")))
	assert.Equal(t, h.L("enhance.usage", nil), h.Tg.LastText())

	assert.Zero(t, h.ChatAI.EnhanceCalls.Load())
}

func TestEnhanceStoresResultInSession(t *testing.T) {
	h := cmdtest.NewHarness(t)
	sess := h.Session()
	sess.SetChatAPIKey("gsk-test")
	h.ChatAI.EnhanceFn = func(ctx context.Context, raw, apiKey string) (string, error) {
		return "a majestic cat, golden hour, 85mm", nil
	}
	cmd := New(h.DI)

	err := cmd.Execute(cmdtest.CommandUpdate("enhance", "a cat"))
	require.NoError(t, err)

	assert.Equal(t, "a majestic cat, golden hour, 85mm", sess.LastEnhancedPrompt())
	assert.Contains(t, h.Tg.LastText(), "a majestic cat, golden hour, 85mm")
	// progress message is removed even on success
	require.Len(t, h.Tg.Deleted, 1)
}

func TestEnhanceEmptyResultFails(t *testing.T) {
	h := cmdtest.NewHarness(t)
	sess := h.Session()
	sess.SetChatAPIKey("gsk-test")
	h.ChatAI.EnhanceFn = func(ctx context.Context, raw, apiKey string) (string, error) {
		return "", nil
	}
	cmd := New(h.DI)

	err := cmd.Execute(cmdtest.CommandUpdate("enhance", "a cat"))
	require.NoError(t, err)

	assert.Equal(t, h.L("enhance.failed", map[string]any{"Error": "empty result"}), h.Tg.LastText())
	assert.Empty(t, sess.LastEnhancedPrompt())
}
