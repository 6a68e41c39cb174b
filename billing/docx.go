package billing

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"sort"
	"strings"
)

// Token substitution uses {{NAME}} as the canonical delimiter. The
// single-brace {NAME} form is still honored for the same names so templates
// written against the legacy convention keep rendering; new templates should
// use {{...}} only.

// ReplaceTokens substitutes every known token in s. Tokens not present in the
// mapping are left as-is.
func ReplaceTokens(s string, tokens map[string]string) string {
	names := make([]string, 0, len(tokens))
	for name := range tokens {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		s = strings.ReplaceAll(s, "{{"+name+"}}", tokens[name])
	}
	// Legacy single-brace pass. Runs second so the canonical form never
	// degrades into a half-replaced token.
	for _, name := range names {
		s = strings.ReplaceAll(s, "{"+name+"}", tokens[name])
	}
	return s
}

// text parts of a .docx archive: the body plus headers and footers. Table
// cells live inside document.xml, so one pass covers paragraphs and tables.
func isDocxTextPart(name string) bool {
	if name == "word/document.xml" {
		return true
	}
	return strings.HasPrefix(name, "word/header") && strings.HasSuffix(name, ".xml") ||
		strings.HasPrefix(name, "word/footer") && strings.HasSuffix(name, ".xml")
}

// ReplaceTokensDocx rewrites a .docx (zip) archive, substituting tokens in
// every text-bearing part. Non-text parts are copied through untouched, so
// styling and layout survive.
func ReplaceTokensDocx(src []byte, tokens map[string]string) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(src), int64(len(src)))
	if err != nil {
		return nil, err
	}

	escaped := make(map[string]string, len(tokens))
	for name, value := range tokens {
		escaped[name] = xmlEscape(value)
	}

	var out bytes.Buffer
	zw := zip.NewWriter(&out)

	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, err
		}

		if isDocxTextPart(f.Name) {
			data = []byte(ReplaceTokens(string(data), escaped))
		}

		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:   f.Name,
			Method: zip.Deflate,
		})
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(data); err != nil {
			return nil, err
		}
	}

	if err := zw.Close(); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func xmlEscape(s string) string {
	var b bytes.Buffer
	if err := xml.EscapeText(&b, []byte(s)); err != nil {
		return s
	}
	return b.String()
}
