package billing

import (
	"archive/zip"
	"bytes"
	"io"
	"strings"
	"testing"
)

func TestReplaceTokens(t *testing.T) {
	tokens := map[string]string{
		"CUSTOMER_NAME": "Kowalski Sp. z o.o.",
		"NET_AMOUNT":    "650.00",
	}

	cases := []struct {
		name string
		in   string
		want string
	}{
		{"canonical form", "Umowa z {{CUSTOMER_NAME}}", "Umowa z Kowalski Sp. z o.o."},
		{"legacy single brace", "Kwota: {NET_AMOUNT} zł", "Kwota: 650.00 zł"},
		{"mixed forms", "{{CUSTOMER_NAME}} / {NET_AMOUNT}", "Kowalski Sp. z o.o. / 650.00"},
		{"unknown token kept", "{{UNKNOWN}} stays", "{{UNKNOWN}} stays"},
		{"repeated token", "{{NET_AMOUNT}} + {{NET_AMOUNT}}", "650.00 + 650.00"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ReplaceTokens(tc.in, tokens); got != tc.want {
				t.Fatalf("expected %q got %q", tc.want, got)
			}
		})
	}
}

func TestIsDocxTextPart(t *testing.T) {
	cases := []struct {
		name string
		want bool
	}{
		{"word/document.xml", true},
		{"word/header1.xml", true},
		{"word/footer2.xml", true},
		{"word/styles.xml", false},
		{"word/media/image1.png", false},
		{"[Content_Types].xml", false},
	}
	for _, tc := range cases {
		if got := isDocxTextPart(tc.name); got != tc.want {
			t.Fatalf("isDocxTextPart(%q): expected %v got %v", tc.name, tc.want, got)
		}
	}
}

// buildDocx assembles a minimal .docx-shaped zip archive in memory.
func buildDocx(t *testing.T, parts map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range parts {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close archive: %v", err)
	}
	return buf.Bytes()
}

func readDocxPart(t *testing.T, archive []byte, name string) string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open %s: %v", name, err)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		return string(data)
	}
	t.Fatalf("part %s not found", name)
	return ""
}

func TestReplaceTokensDocx(t *testing.T) {
	src := buildDocx(t, map[string]string{
		"[Content_Types].xml": `<Types/>`,
		"word/document.xml":   `<w:p><w:t>Umowa z {{CUSTOMER_NAME}}</w:t></w:p><w:tbl><w:t>{NET_AMOUNT}</w:t></w:tbl>`,
		"word/header1.xml":    `<w:t>Nr {{CONTRACT_NUMBER}}</w:t>`,
		"word/footer1.xml":    `<w:t>{{COMPANY_NAME}}</w:t>`,
		"word/styles.xml":     `<w:styles>{{CUSTOMER_NAME}}</w:styles>`,
	})
	tokens := map[string]string{
		"CUSTOMER_NAME":   "Kowalski & Syn <Sp. z o.o.>",
		"NET_AMOUNT":      "650.00",
		"CONTRACT_NUMBER": "UM/2025/7",
		"COMPANY_NAME":    "Moja Firma",
	}

	out, err := ReplaceTokensDocx(src, tokens)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	body := readDocxPart(t, out, "word/document.xml")
	if !strings.Contains(body, "Umowa z Kowalski &amp; Syn &lt;Sp. z o.o.&gt;") {
		t.Fatalf("body not substituted or not XML-escaped: %q", body)
	}
	if !strings.Contains(body, "<w:t>650.00</w:t>") {
		t.Fatalf("legacy table cell token not substituted: %q", body)
	}

	if header := readDocxPart(t, out, "word/header1.xml"); !strings.Contains(header, "Nr UM/2025/7") {
		t.Fatalf("header not substituted: %q", header)
	}
	if footer := readDocxPart(t, out, "word/footer1.xml"); !strings.Contains(footer, "Moja Firma") {
		t.Fatalf("footer not substituted: %q", footer)
	}

	// Non-text parts pass through untouched, tokens included.
	if styles := readDocxPart(t, out, "word/styles.xml"); !strings.Contains(styles, "{{CUSTOMER_NAME}}") {
		t.Fatalf("styles part should not be rewritten: %q", styles)
	}
	if types := readDocxPart(t, out, "[Content_Types].xml"); types != `<Types/>` {
		t.Fatalf("content types part changed: %q", types)
	}
}

func TestReplaceTokensDocxIsDeterministic(t *testing.T) {
	src := buildDocx(t, map[string]string{
		"word/document.xml": `<w:t>{{CUSTOMER_NAME}} owes {{NET_AMOUNT}}</w:t>`,
	})
	tokens := map[string]string{"CUSTOMER_NAME": "Kowalski", "NET_AMOUNT": "650.00"}

	first, err := ReplaceTokensDocx(src, tokens)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := ReplaceTokensDocx(src, tokens)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatal("same template and tokens produced different archives")
	}
}

func TestReplaceTokensDocxRejectsGarbage(t *testing.T) {
	if _, err := ReplaceTokensDocx([]byte("not a zip archive"), nil); err == nil {
		t.Fatal("expected error for a non-zip payload")
	}
}
