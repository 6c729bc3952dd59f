package invoice

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

var ErrRender = errors.New("render invoice")

type Renderer interface {
	Render(doc Document) ([]byte, error)
	ContentType() string
}

// File is a rendered document ready to be downloaded.
type File struct {
	Name        string
	ContentType string
	Content     []byte
}

func Export(r Renderer, doc Document) (*File, error) {
	content, err := r.Render(doc)
	if err != nil {
		return nil, err
	}
	name := doc.FileName
	if r.ContentType() != "application/pdf" {
		name = strings.TrimSuffix(name, ".pdf") + ".txt"
	}
	return &File{Name: name, ContentType: r.ContentType(), Content: content}, nil
}

// PDFRenderer draws documents with gofpdf using the core Helvetica font.
type PDFRenderer struct {
	Title string
}

func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{Title: "Tax Invoice"}
}

func (r *PDFRenderer) ContentType() string { return "application/pdf" }

func (r *PDFRenderer) Render(doc Document) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(r.Title, true)
	pdf.SetCreator("storefront", true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	for _, in := range doc.Instructions {
		switch in.Kind {
		case KindText:
			style := ""
			if in.Bold {
				style = "B"
			}
			pdf.SetFont("Helvetica", style, in.Size)
			s := tr(in.Text)
			x := in.X
			if in.Align == AlignCenter {
				x -= pdf.GetStringWidth(s) / 2
			}
			pdf.Text(x, in.Y, s)
		case KindRect:
			pdf.SetFillColor(in.Fill.R, in.Fill.G, in.Fill.B)
			pdf.Rect(in.X, in.Y, in.W, in.H, "F")
		case KindLine:
			pdf.Line(in.X, in.Y, in.X2, in.Y2)
		case KindImage:
			if !usableImage(in.Image) {
				log.Printf("invoice: image %q not available, skipping", in.Image)
				continue
			}
			pdf.ImageOptions(in.Image, in.X, in.Y, in.W, in.H, false, gofpdf.ImageOptions{ReadDpi: true}, 0, "")
		case KindPageBreak:
			pdf.AddPage()
		}
		if pdf.Err() {
			return nil, fmt.Errorf("%w: %v", ErrRender, pdf.Error())
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRender, err)
	}
	return buf.Bytes(), nil
}

func usableImage(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".jpg", ".jpeg", ".gif":
	default:
		return false
	}
	st, err := os.Stat(path)
	return err == nil && !st.IsDir()
}

// TextRenderer writes every text instruction on its own line and marks page
// breaks with a form feed. The admin dashboard uses it for quick previews.
type TextRenderer struct{}

func (TextRenderer) ContentType() string { return "text/plain; charset=utf-8" }

func (TextRenderer) Render(doc Document) ([]byte, error) {
	var b strings.Builder
	for _, in := range doc.Instructions {
		switch in.Kind {
		case KindText:
			b.WriteString(in.Text)
			b.WriteByte('\n')
		case KindPageBreak:
			b.WriteString("\f\n")
		}
	}
	return []byte(b.String()), nil
}
