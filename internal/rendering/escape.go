// Package rendering turns resume records into LaTeX documents.
package rendering

import (
	"fmt"
	"strings"
)

// typographic maps punctuation outside Latin-1 that the T1/textcomp setup can typeset.
var typographic = map[rune]string{
	'–': "--",
	'—': "---",
	'‘': "`",
	'’': "'",
	'‚': `\quotesinglbase{}`,
	'“': "``",
	'”': "''",
	'„': `\quotedblbase{}`,
	'†': `\textdagger{}`,
	'‡': `\textdaggerdbl{}`,
	'•': `\textbullet{}`,
	'…': `\ldots{}`,
	'‰': `\textperthousand{}`,
	'‹': `\guilsinglleft{}`,
	'›': `\guilsinglright{}`,
	'€': `\texteuro{}`,
	'™': `\texttrademark{}`,
}

// strokeLetters have no T1 glyph and are typeset as their base letter.
var strokeLetters = map[rune]string{
	'Ħ': "H",
	'ħ': "h",
	'Ŧ': "T",
	'ŧ': "t",
}

// EscapeLaTeX escapes special LaTeX characters in text
// Special characters: \ { } $ & % # ^ _ ~
// Control characters become spaces and runes the document font cannot
// typeset become "?", so the result is always safe inside a macro argument.
// Input that would form a T1 ligature (--, <<, ,, ?` and the like) is split
// with {} so the literal characters are printed.
func EscapeLaTeX(text string) string {
	if text == "" {
		return ""
	}

	var result strings.Builder
	result.Grow(len(text) * 2)

	var last byte
	for _, r := range text {
		piece := escapeRune(r)
		if ligature(last, piece[0]) {
			result.WriteString("{}")
		}
		result.WriteString(piece)
		last = piece[len(piece)-1]
	}

	return result.String()
}

func escapeRune(r rune) string {
	switch r {
	case '\\':
		return `\textbackslash{}`
	case '{':
		return `\{`
	case '}':
		return `\}`
	case '$':
		return `\$`
	case '&':
		return `\&`
	case '%':
		return `\%`
	case '#':
		return `\#`
	case '^':
		return `\textasciicircum{}`
	case '_':
		return `\_`
	case '~':
		return `\textasciitilde{}`
	}
	switch {
	case r < 0x20 || r == 0x7F:
		return " "
	case r < 0x7F:
		return string(r)
	case typesettable(r):
		return string(r)
	}
	if repl, ok := typographic[r]; ok {
		return repl
	}
	if repl, ok := strokeLetters[r]; ok {
		return repl
	}
	return "?"
}

// ligature reports whether prev followed by next forms a T1 font ligature.
func ligature(prev, next byte) bool {
	switch prev {
	case '-', '<', '>', ',', '`', '\'':
		return next == prev
	case '?', '!':
		return next == '`'
	default:
		return false
	}
}

// typesettable reports whether pdflatex with utf8 input and T1 fonts accepts r verbatim.
func typesettable(r rune) bool {
	switch {
	case r >= 0xA0 && r <= 0xFF:
		return true
	case r >= 0x100 && r <= 0x17E:
		switch r {
		// kra, apostrophe-n, L-dot and the H and T stroke letters have no T1 glyph
		case 0x126, 0x127, 0x138, 0x13F, 0x140, 0x149, 0x166, 0x167:
			return false
		}
		return true
	default:
		return false
	}
}

// EscapeURL prepares a URL for the first argument of \href when the \href
// itself sits inside another macro argument.
func EscapeURL(url string) string {
	if url == "" {
		return ""
	}

	var result strings.Builder
	result.Grow(len(url) + 16)

	for _, b := range []byte(url) {
		switch b {
		case '%':
			result.WriteString(`\%`)
		case '#':
			result.WriteString(`\#`)
		case '\\', '{', '}', '^', '~', '&', '$', '_', ' ', '"', '<', '>', '|', '`':
			result.WriteString(fmt.Sprintf(`\%%%02X`, b))
		default:
			if b < 0x20 || b >= 0x7F {
				result.WriteString(fmt.Sprintf(`\%%%02X`, b))
			} else {
				result.WriteByte(b)
			}
		}
	}

	return result.String()
}
