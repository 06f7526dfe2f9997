package polyglot

import (
	"path/filepath"
	"strings"
)

// LanguageNames maps language codes to English names used in backend prompts.
var LanguageNames = map[string]string{
	"en": "English",
	"sk": "Slovak",
	"cs": "Czech",
	"hu": "Hungarian",
	"de": "German",
	"pl": "Polish",
	"fr": "French",
	"es": "Spanish",
	"it": "Italian",
	"pt": "Portuguese",
	"nl": "Dutch",
	"ro": "Romanian",
	"uk": "Ukrainian",
	"ru": "Russian",
	"sl": "Slovenian",
	"hr": "Croatian",
	"sr": "Serbian",
	"bg": "Bulgarian",
	"da": "Danish",
	"sv": "Swedish",
	"fi": "Finnish",
	"nb": "Norwegian Bokmål",
	"el": "Greek",
	"tr": "Turkish",
	"ja": "Japanese",
	"ko": "Korean",
	"zh": "Chinese",
	"ar": "Arabic",
	"he": "Hebrew",
	"hi": "Hindi",
}

// GetLanguageName returns the human-readable name for a language code.
// Regional codes ("de_AT", "pt-BR") fall back to their base language; unknown
// codes are returned unchanged.
func GetLanguageName(langCode string) string {
	norm := NormalizeLang(langCode)
	if name, ok := LanguageNames[norm]; ok {
		return name
	}
	if name, ok := LanguageNames[BaseLang(norm)]; ok {
		return name
	}
	return langCode
}

// NormalizeLang lower-cases a code and uses "_" as the region separator
// ("pt-BR" -> "pt_br").
func NormalizeLang(langCode string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(langCode), "-", "_"))
}

// BaseLang extracts the base language code ("en" from "en_US").
func BaseLang(langCode string) string {
	norm := NormalizeLang(langCode)
	if i := strings.IndexByte(norm, '_'); i >= 0 {
		return norm[:i]
	}
	return norm
}

// SameLang reports whether two codes name the same language variant.
// "en" and "en_US" are different; "en_US" and "en-us" are the same.
func SameLang(a, b string) bool {
	return NormalizeLang(a) == NormalizeLang(b)
}

// TranslatedFilename inserts a language suffix before the extension of path
// ("docs/index.html", "sk" -> "docs/index_sk.html"). The source language
// keeps the original name.
func TranslatedFilename(path, lang, sourceLang string) string {
	if SameLang(lang, sourceLang) {
		return path
	}
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "_" + lang + ext
}
