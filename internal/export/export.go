package export

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/aifusion/aifusionbot/internal/session"
)

type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatPDF      Format = "pdf"
)

const (
	documentTitle = "AIFusion Chat History"
	pdfLineWidth  = 90
)

// ErrEmptyHistory is returned when there is nothing to export.
var ErrEmptyHistory = errors.New("no chat history to export")

// FormatError reports an unsupported export format, keeping the value
// the user actually passed.
type FormatError struct {
	Format string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("unsupported export format: %s", e.Format)
}

// ParseFormat validates a user-supplied format name. An empty name
// defaults to markdown.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "", string(FormatMarkdown):
		return FormatMarkdown, nil
	case string(FormatPDF):
		return FormatPDF, nil
	default:
		return "", &FormatError{Format: name}
	}
}

// Export renders the chat history in the given format and returns the
// file bytes together with a timestamped filename.
func Export(history []session.Message, format Format) ([]byte, string, error) {
	if len(history) == 0 {
		return nil, "", ErrEmptyHistory
	}

	stamp := time.Now().Format("20060102_150405")

	switch format {
	case FormatMarkdown:
		return renderMarkdown(history), fmt.Sprintf("chat_history_%s.md", stamp), nil
	case FormatPDF:
		data, err := renderPDF(history)
		if err != nil {
			return nil, "", err
		}
		return data, fmt.Sprintf("chat_history_%s.pdf", stamp), nil
	default:
		return nil, "", &FormatError{Format: string(format)}
	}
}

func roleLabel(role string) string {
	if role == session.RoleAssistant {
		return "🤖 Assistant"
	}
	return "👤 You"
}

func renderMarkdown(history []session.Message) []byte {
	var buf bytes.Buffer
	buf.WriteString("# " + documentTitle + "\n\n")
	for _, msg := range history {
		fmt.Fprintf(&buf, "### %s:\n%s\n\n", roleLabel(msg.Role), msg.Content)
	}
	return buf.Bytes()
}

func renderPDF(history []session.Message) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 24)
	pdf.CellFormat(0, 20, documentTitle, "", 1, "C", false, 0, "")
	pdf.Ln(10)

	for _, msg := range history {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, roleLabel(msg.Role)+":", "", 1, "L", false, 0, "")

		pdf.SetFont("Arial", "", 12)
		for _, line := range strings.Split(msg.Content, "\n") {
			for _, chunk := range wrapLine(line, pdfLineWidth) {
				pdf.MultiCell(0, 10, chunk, "", "L", false)
			}
		}
		pdf.Ln(5)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// wrapLine hard-wraps a line into width-rune chunks. An empty line still
// produces one empty chunk so blank lines survive the export.
func wrapLine(line string, width int) []string {
	runes := []rune(line)
	if len(runes) == 0 {
		return []string{""}
	}

	var chunks []string
	for len(runes) > 0 {
		n := width
		if n > len(runes) {
			n = len(runes)
		}
		chunks = append(chunks, string(runes[:n]))
		runes = runes[n:]
	}
	return chunks
}
