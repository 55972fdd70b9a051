package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aifusion/aifusionbot/internal/commands/cmdtest"
	"github.com/aifusion/aifusionbot/internal/session"
	"github.com/aifusion/aifusionbot/internal/telegram"
)

func TestExportEmptyHistory(t *testing.T) {
	h := cmdtest.NewHarness(t)
	cmd := New(h.DI)

	err := cmd.Handle(cmdtest.CommandUpdate("export", ""))
	require.NoError(t, err)

	assert.Equal(t, h.L("export.empty", nil), h.Tg.LastText())
}

func TestExportInvalidFormat(t *testing.T) {
	h := cmdtest.NewHarness(t)
	h.Session().AppendHistory(session.RoleUser, "hi")
	cmd := New(h.DI)

	err := cmd.Handle(cmdtest.CommandUpdate("export", "docx"))
	require.NoError(t, err)

	assert.Equal(t, h.L("export.invalidFormat", nil), h.Tg.LastText())
}

func TestExportMarkdownDocument(t *testing.T) {
	h := cmdtest.NewHarness(t)
	sess := h.Session()
	sess.AppendHistory(session.RoleUser, "question")
	sess.AppendHistory(session.RoleAssistant, "answer")
	cmd := New(h.DI)

	err := cmd.Handle(cmdtest.CommandUpdate("export", "markdown"))
	require.NoError(t, err)

	doc := lastDocument(t, h.Tg)
	file, ok := doc.Document.(telegram.FileBytes)
	require.True(t, ok)
	assert.True(t, strings.HasSuffix(file.Name, ".md"), "got %q", file.Name)

	content := string(file.Bytes)
	assert.Contains(t, content, "question")
	assert.Contains(t, content, "answer")
	assert.Less(t, strings.Index(content, "question"), strings.Index(content, "answer"))

	assert.Equal(t, h.L("export.captionMarkdown", nil), doc.Caption)
	// processing message cleanup
	require.Len(t, h.Tg.Deleted, 1)
}

func TestExportPDFDocument(t *testing.T) {
	h := cmdtest.NewHarness(t)
	sess := h.Session()
	sess.AppendHistory(session.RoleUser, "question")
	cmd := New(h.DI)

	err := cmd.Handle(cmdtest.CommandUpdate("export", "pdf"))
	require.NoError(t, err)

	doc := lastDocument(t, h.Tg)
	file, ok := doc.Document.(telegram.FileBytes)
	require.True(t, ok)
	assert.True(t, strings.HasSuffix(file.Name, ".pdf"), "got %q", file.Name)
	assert.True(t, strings.HasPrefix(string(file.Bytes), "%PDF"))
	assert.Equal(t, h.L("export.captionPDF", nil), doc.Caption)
}

func lastDocument(t *testing.T, tg *telegram.TestClient) telegram.DocumentMessage {
	t.Helper()
	for i := len(tg.Sent) - 1; i >= 0; i-- {
		if doc, ok := tg.Sent[i].(telegram.DocumentMessage); ok {
			return doc
		}
	}
	t.Fatal("no document message sent")
	return telegram.DocumentMessage{}
}
