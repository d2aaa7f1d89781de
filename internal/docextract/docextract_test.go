package docextract

import (
	"archive/zip"
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestAllowed(t *testing.T) {
	t.Parallel()

	tests := map[string]bool{
		"cv.pdf":       true,
		"CV.PDF":       true,
		"resume.docx":  true,
		"resume.doc":   true,
		"notes.txt":    true,
		"photo.png":    false,
		"no-extension": false,
		"":             false,
	}

	for name, want := range tests {
		if got := Allowed(name); got != want {
			t.Fatalf("Allowed(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestExtractText(t *testing.T) {
	text, err := Extract("resume.txt", []byte("  Jane Doe\nGo developer  \n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "Jane Doe\nGo developer" {
		t.Fatalf("unexpected text %q", text)
	}
}

func TestExtractEmpty(t *testing.T) {
	_, err := Extract("resume.txt", []byte(" \n\t "))
	if !errors.Is(err, ErrEmptyDocument) {
		t.Fatalf("expected ErrEmptyDocument, got %v", err)
	}
}

func TestExtractUnsupported(t *testing.T) {
	for _, name := range []string{"resume.doc", "resume.rtf"} {
		_, err := Extract(name, []byte("data"))
		if !errors.Is(err, ErrUnsupportedFormat) {
			t.Fatalf("%s: expected ErrUnsupportedFormat, got %v", name, err)
		}
	}
}

func TestExtractBrokenPDF(t *testing.T) {
	_, err := Extract("resume.pdf", []byte("not a pdf"))
	if err == nil {
		t.Fatal("expected error for malformed pdf")
	}
	if !strings.Contains(err.Error(), "resume.pdf") {
		t.Fatalf("error should name the file: %v", err)
	}
}

func TestExtractDocx(t *testing.T) {
	body := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>
<w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>
<w:p><w:r><w:t xml:space="preserve">Senior </w:t></w:r><w:r><w:t>Go Engineer</w:t></w:r></w:p>
</w:body></w:document>`
	rels := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range map[string]string{
		"word/document.xml":            body,
		"word/_rels/document.xml.rels": rels,
	} {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create: %v", err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("zip write: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}

	text, err := Extract("resume.docx", buf.Bytes())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "Jane Doe\nSenior Go Engineer" {
		t.Fatalf("unexpected text %q", text)
	}
}

func TestDocumentTextIgnoresMarkup(t *testing.T) {
	got, err := documentText(`<w:p><w:pPr><w:jc w:val="left"/></w:pPr><w:r><w:t>A</w:t><w:tab/><w:t>B</w:t></w:r></w:p>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "A\tB\n" {
		t.Fatalf("unexpected text %q", got)
	}
}
