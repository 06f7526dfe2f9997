package polyglot

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
)

// AutoLang is the source language recorded when none is configured.
const AutoLang = "auto"

// CacheKey derives the content-addressed cache key for a translation.
// The key is the SHA-256 of the length-prefixed triple, so distinct triples
// cannot produce the same pre-image.
func CacheKey(text, sourceLang, targetLang string) string {
	if sourceLang == "" {
		sourceLang = AutoLang
	}

	h := sha256.New()
	for _, part := range []string{text, sourceLang, targetLang} {
		var n [8]byte
		binary.LittleEndian.PutUint64(n[:], uint64(len(part)))
		h.Write(n[:])
		h.Write([]byte(part))
	}
	return hex.EncodeToString(h.Sum(nil))
}
