package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalizer(t *testing.T) {
	l, err := NewLocalizer("en")
	require.NoError(t, err)

	assert.Equal(t, "Please provide a message after /chat", l.Localize("chat.usage", nil))
	assert.Equal(t, "Temperature set to: 0.7", l.Localize("temperature.set", map[string]any{"Value": "0.7"}))

	// unknown IDs fall back to the ID itself
	assert.Equal(t, "no.such.message", l.Localize("no.such.message", nil))
}

func TestLocalizerRejectsBadLanguage(t *testing.T) {
	_, err := NewLocalizer("not a lang tag")
	require.Error(t, err)
}

func TestLocalizerNonEnglishWarningNamesLanguage(t *testing.T) {
	l, err := NewLocalizer("en")
	require.NoError(t, err)

	msg := l.Localize("transcribe.nonEnglish", map[string]any{"Language": "fr"})
	assert.Contains(t, msg, "fr")
	assert.Contains(t, msg, "English")
}
