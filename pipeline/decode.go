package pipeline

import (
	"bytes"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/ZaguanLabs/polyglot"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/transform"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// decode returns raw as UTF-8 text and the name of the encoding it was read
// as. UTF-8 input (with or without BOM) is used as is; anything else goes
// through charset detection, and if that fails invalid bytes are replaced.
func decode(raw []byte, format polyglot.Format) (string, string) {
	if trimmed, ok := bytes.CutPrefix(raw, utf8BOM); ok {
		raw = trimmed
	}
	if utf8.Valid(raw) {
		return string(raw), "utf-8"
	}

	enc, name, _ := charset.DetermineEncoding(raw, contentType(format))
	if decoded, _, err := transform.Bytes(enc.NewDecoder(), raw); err == nil && utf8.Valid(decoded) {
		return string(decoded), name
	}

	return strings.ToValidUTF8(string(raw), "\uFFFD"), "utf-8 (lossy)"
}

// contentType lets charset detection honour <meta charset> in HTML.
func contentType(format polyglot.Format) string {
	if format == polyglot.FormatHTML {
		return "text/html"
	}
	return "text/plain"
}

// ReadDocument reads path and decodes it the way ProcessDocument does.
func ReadDocument(path string) (string, error) {
	raw, err := os.ReadFile(path) // #nosec G304 - paths come from the operator
	if err != nil {
		return "", err
	}
	content, _ := decode(raw, polyglot.FormatForPath(path))
	return content, nil
}
