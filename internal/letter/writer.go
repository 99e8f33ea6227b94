// Package letter writes plain-text letters as single-column PDFs.
package letter

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-pdf/fpdf"
)

//go:embed fonts/DejaVuSansCondensed.ttf
var dejaVuSans []byte

// Writer lays out text on A4 pages with an embedded Unicode TrueType font.
type Writer struct {
	FontFamily string
	// Font is the TrueType data registered under FontFamily.
	Font     []byte
	FontSize float64
	// LineHeight is in millimetres.
	LineHeight float64
	// BreakMargin is the bottom margin that triggers a page break, in millimetres.
	BreakMargin float64

	uncompressed bool
}

// NewWriter returns a Writer using DejaVu Sans Condensed 10pt, 7mm lines and
// a 15mm break margin.
func NewWriter() *Writer {
	return &Writer{
		FontFamily:  "DejaVuSansCondensed",
		Font:        dejaVuSans,
		FontSize:    10,
		LineHeight:  7,
		BreakMargin: 15,
	}
}

// Write renders text to w. Paragraph breaks in text are kept.
func (lw *Writer) Write(w io.Writer, text string) error {
	if len(lw.Font) == 0 {
		return fmt.Errorf("letter font %q has no font data", lw.FontFamily)
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(!lw.uncompressed)
	pdf.AddUTF8FontFromBytes(lw.FontFamily, "", lw.Font)
	pdf.SetAutoPageBreak(true, lw.BreakMargin)
	pdf.AddPage()
	pdf.SetFont(lw.FontFamily, "", lw.FontSize)
	pdf.MultiCell(0, lw.LineHeight, normalizeText(text), "", "L", false)

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write letter PDF: %w", err)
	}
	return nil
}

// WriteFile renders text to path.
func (lw *Writer) WriteFile(path, text string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := lw.Write(f, text); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func normalizeText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.ReplaceAll(text, "\t", "    ")
	return strings.TrimSpace(text)
}
