// Package langdetect identifies PHP sources that lack a PHP file extension.
// It uses go-enry for shebang, extension and vendor heuristics.
package langdetect

import (
	"bytes"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Language names returned by Detect.
const (
	langPHP  = "php"
	langHack = "hack"
	langText = "text"
)

// enry's names for the languages the parser accepts.
const (
	enryPHP     = "PHP"
	enryHack    = "Hack"
	enryHTMLPHP = "HTML+PHP"
)

// maxSniff bounds how much content is inspected for an open tag.
const maxSniff = 8 << 10

// Detect returns "php", "hack" or "text" for a file.
func Detect(filename string, content []byte) string {
	// Strategy 1: shebang is decisive for scripts.
	if lang, safe := enry.GetLanguageByShebang(content); safe {
		return normalize(lang)
	}

	// Strategy 2: known extensions.
	if ext := filepath.Ext(filename); ext != "" {
		langs := enry.GetLanguagesByExtension(filename, content, nil)
		if slices.Contains(langs, enryPHP) || slices.Contains(langs, enryHTMLPHP) {
			return langPHP
		}
		if slices.Contains(langs, enryHack) {
			return langHack
		}
	}

	// Strategy 3: an open tag near the top of the file.
	if HasOpenTag(content) {
		return langPHP
	}

	return langText
}

// IsPHP reports whether the parser should be run on the file.
func IsPHP(filename string, content []byte) bool {
	lang := Detect(filename, content)
	return lang == langPHP || lang == langHack
}

// HasOpenTag reports whether content contains a "<?php" or "<?=" tag
// within its first few kilobytes.
func HasOpenTag(content []byte) bool {
	if len(content) > maxSniff {
		content = content[:maxSniff]
	}
	lower := bytes.ToLower(content)
	return bytes.Contains(lower, []byte("<?php")) || bytes.Contains(lower, []byte("<?="))
}

// IsVendor reports whether path lies in a dependency directory such as
// vendor/ or node_modules/.
func IsVendor(path string) bool {
	return enry.IsVendor(filepath.ToSlash(path))
}

func normalize(lang string) string {
	switch lang {
	case enryPHP, enryHTMLPHP:
		return langPHP
	case enryHack:
		return langHack
	default:
		return strings.ToLower(lang)
	}
}
