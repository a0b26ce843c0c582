package resume

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported resume format")
	ErrResumeParse       = errors.New("resume parse failed")
)

// ParseError wraps any failure while reading a supported document.
type ParseError struct {
	Format Format
	Err    error
}

func (e *ParseError) Error() string {
	if e.Format == "" {
		return fmt.Sprintf("parse resume: %v", e.Err)
	}
	return fmt.Sprintf("parse %s resume: %v", e.Format, e.Err)
}

func (e *ParseError) Is(target error) bool { return target == ErrResumeParse }

func (e *ParseError) Unwrap() error { return e.Err }

// FormatFromFilename maps an upload's extension to a Format.
func FormatFromFilename(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(strings.TrimSpace(name)), ".")) {
	case "pdf":
		return FormatPDF, nil
	case "docx":
		return FormatDOCX, nil
	default:
		return "", ErrUnsupportedFormat
	}
}

// ExtractText returns the plain text of a résumé document.
func ExtractText(data []byte, format Format) (text string, err error) {
	var extract func([]byte) (string, error)
	switch format {
	case FormatPDF:
		extract = pdfText
	case FormatDOCX:
		extract = docxText
	default:
		return "", ErrUnsupportedFormat
	}

	defer func() {
		if r := recover(); r != nil {
			text, err = "", &ParseError{Format: format, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	text, err = extract(data)
	if err != nil {
		return "", &ParseError{Format: format, Err: err}
	}
	return text, nil
}

// pdfText walks the positioned glyphs of every page and starts a new line
// whenever the baseline moves, so a name set on its own line stays there.
func pdfText(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		writeGlyphLines(&b, p.Content().Text)
		b.WriteString("\n")
	}
	return b.String(), nil
}

// baselineTolerance is how far, in points, two glyphs may sit apart
// vertically and still count as the same line.
const baselineTolerance = 1.0

// writeGlyphLines ignores the newline glyphs the reader appends after each
// TJ array; only a baseline move ends a line.
func writeGlyphLines(b *strings.Builder, glyphs []pdf.Text) {
	first := true
	var lastY float64
	for _, t := range glyphs {
		if t.S == "\n" {
			continue
		}
		if !first && math.Abs(t.Y-lastY) > baselineTolerance {
			b.WriteString("\n")
		}
		b.WriteString(t.S)
		first, lastY = false, t.Y
	}
}

const wordNS = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

// docxText reads word/document.xml: body paragraphs first, one per line, then
// every table row with each cell followed by a space.
func docxText(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	var doc *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			doc = f
			break
		}
	}
	if doc == nil {
		return "", errors.New("word/document.xml not found")
	}
	rc, err := doc.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	paragraphs, rows, err := walkDocument(rc)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, p := range paragraphs {
		b.WriteString(p)
		b.WriteString("\n")
	}
	for _, row := range rows {
		for _, cell := range row {
			b.WriteString(cell)
			b.WriteString(" ")
		}
		b.WriteString("\n")
	}
	return b.String(), nil
}

// walkDocument streams the document XML. Paragraphs directly in the body are
// collected separately from table cells; a cell's text is its paragraphs
// joined by newlines.
func walkDocument(r io.Reader) (paragraphs []string, rows [][]string, err error) {
	dec := xml.NewDecoder(r)

	var (
		tableDepth int
		para       strings.Builder
		inPara     bool
		inRun      bool
		inText     bool
		cellParts  []string
		row        []string
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Space != wordNS {
				continue
			}
			switch t.Name.Local {
			case "tbl":
				tableDepth++
			case "tr":
				if tableDepth == 1 {
					row = nil
				}
			case "tc":
				if tableDepth == 1 {
					cellParts = nil
				}
			case "p":
				inPara = true
				para.Reset()
			case "r":
				inRun = true
			case "t":
				inText = true
			case "tab":
				if inPara && inRun {
					para.WriteString("\t")
				}
			case "br", "cr":
				if inPara && inRun {
					para.WriteString("\n")
				}
			}

		case xml.EndElement:
			if t.Name.Space != wordNS {
				continue
			}
			switch t.Name.Local {
			case "t":
				inText = false
			case "r":
				inRun = false
			case "p":
				inPara = false
				if tableDepth == 0 {
					paragraphs = append(paragraphs, para.String())
				} else {
					cellParts = append(cellParts, para.String())
				}
			case "tc":
				if tableDepth == 1 {
					row = append(row, strings.Join(cellParts, "\n"))
				}
			case "tr":
				if tableDepth == 1 {
					rows = append(rows, row)
				}
			case "tbl":
				tableDepth--
			}

		case xml.CharData:
			if inPara && inText {
				para.Write(t)
			}
		}
	}
	return paragraphs, rows, nil
}
