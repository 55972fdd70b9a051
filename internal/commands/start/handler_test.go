package start

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aifusion/aifusionbot/internal/commands/cmdtest"
)

func TestStartSendsWelcome(t *testing.T) {
	h := cmdtest.NewHarness(t)
	cmd := New(h.DI)

	err := cmd.Handle(cmdtest.CommandUpdate("start", ""))
	require.NoError(t, err)

	assert.Equal(t, h.L("start.welcome", nil), h.Tg.LastText())
}

func TestHelpListsCommands(t *testing.T) {
	h := cmdtest.NewHarness(t)
	cmd := New(h.DI)

	err := cmd.Handle(cmdtest.CommandUpdate("help", ""))
	require.NoError(t, err)

	out := h.Tg.LastText()
	for _, name := range []string{"/chat", "/imagine", "/transcribe", "/summarize", "/setchatkey", "/uploadenv", "/export"} {
		assert.Contains(t, out, name)
	}
}
