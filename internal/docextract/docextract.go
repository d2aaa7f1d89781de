// Package docextract pulls plain text out of uploaded resume documents.
package docextract

import (
	"bytes"
	"encoding/xml"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"github.com/pkg/errors"
)

var (
	// ErrUnsupportedFormat is returned for extensions the extractor cannot read.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrEmptyDocument is returned when a readable document holds no text,
	// including image-only PDFs since there is no OCR fallback.
	ErrEmptyDocument = errors.New("document contains no text")
)

// allowed lists the extensions accepted on upload.
var allowed = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".txt":  true,
}

// Allowed reports whether filename has an extension accepted on upload.
func Allowed(filename string) bool {
	return allowed[ext(filename)]
}

// Extract returns the text of the document named filename.
func Extract(filename string, data []byte) (string, error) {
	var (
		text string
		err  error
	)

	switch ext(filename) {
	case ".txt":
		text = string(data)
	case ".pdf":
		text, err = extractPDF(data)
	case ".docx":
		text, err = extractDocx(data)
	default:
		// Legacy binary .doc passes the upload check but has no reader here.
		return "", errors.Wrapf(ErrUnsupportedFormat, "file %q", filename)
	}
	if err != nil {
		return "", errors.Wrapf(err, "extract text from %q", filename)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyDocument
	}
	return text, nil
}

func ext(filename string) string {
	return strings.ToLower(filepath.Ext(strings.TrimSpace(filename)))
}

func extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", errors.Wrap(err, "failed to read pdf")
	}

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", errors.Wrapf(err, "failed to read pdf page %d", i)
		}
		b.WriteString(text)
		b.WriteString("\n")
	}

	return b.String(), nil
}

func extractDocx(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", errors.Wrap(err, "failed to parse docx")
	}
	defer doc.Close()

	return documentText(doc.Editable().GetContent())
}

// documentText keeps the w:t runs of a WordprocessingML body, one line per paragraph.
func documentText(content string) (string, error) {
	decoder := xml.NewDecoder(strings.NewReader(content))

	var (
		b      strings.Builder
		inText bool
	)
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", errors.Wrap(err, "failed to decode docx body")
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				b.WriteString("\t")
			case "br":
				b.WriteString("\n")
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				b.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}

	return b.String(), nil
}
