package intel

import (
	"regexp"
	"strings"
)

// Scammers routinely obfuscate numbers ("nine eight seven...", "98765 43210",
// "9-8-7-6...") to dodge platform filters. NormalizeNumerals undoes the two
// cheap variants before numeric matching: spoken digit words (English and
// romanized Hindi) and stray separators between digit groups.
func NormalizeNumerals(text string) string {
	return collapseDigitSeparators(replaceDigitWords(text))
}

var digitWords = map[string]byte{
	"zero": '0', "one": '1', "two": '2', "three": '3', "four": '4',
	"five": '5', "six": '6', "seven": '7', "eight": '8', "nine": '9',
	"shunya": '0', "sifar": '0', "ek": '1', "do": '2', "teen": '3',
	"chaar": '4', "char": '4', "paanch": '5', "panch": '5', "chhe": '6',
	"saat": '7', "aath": '8', "nau": '9',
}

// A run of two or more digit words separated by spaces/commas/hyphens. Single
// words stay untouched ("one moment", "do it") to keep false positives down.
var digitWordRunPattern = regexp.MustCompile(`(?i)\b(?:zero|one|two|three|four|five|six|seven|eight|nine|shunya|sifar|ek|do|teen|chaar|char|paanch|panch|chhe|saat|aath|nau)(?:[\s,\-]+(?:zero|one|two|three|four|five|six|seven|eight|nine|shunya|sifar|ek|do|teen|chaar|char|paanch|panch|chhe|saat|aath|nau)\b){1,}`)

var wordSplitPattern = regexp.MustCompile(`[\s,\-]+`)

func replaceDigitWords(text string) string {
	return digitWordRunPattern.ReplaceAllStringFunc(text, func(run string) string {
		var b strings.Builder
		for _, w := range wordSplitPattern.Split(run, -1) {
			if d, ok := digitWords[strings.ToLower(w)]; ok {
				b.WriteByte(d)
			}
		}
		return b.String()
	})
}

// collapseDigitSeparators joins digit groups split by hyphens, dots or spaces.
// A separator joins only when one side is a short group (<= 5 digits), so
// obfuscated fragments ("98-76-54...", "98765 43210") fuse while two full
// phone numbers written side by side stay distinct runs.
func collapseDigitSeparators(text string) string {
	var out strings.Builder
	out.Grow(len(text))

	i := 0
	prevGroupLen := 0
	for i < len(text) {
		c := text[i]
		if c < '0' || c > '9' {
			// Candidate separator run between two digit groups.
			if prevGroupLen > 0 {
				j := i
				for j < len(text) && isDigitSeparator(text[j]) {
					j++
				}
				if j > i && j < len(text) && isDigit(text[j]) {
					nextLen := digitRunLen(text[j:])
					if prevGroupLen <= 5 || nextLen <= 5 {
						prevGroupLen += nextLen
						out.WriteString(text[j : j+nextLen])
						i = j + nextLen
						continue
					}
				}
			}
			prevGroupLen = 0
			out.WriteByte(c)
			i++
			continue
		}
		n := digitRunLen(text[i:])
		prevGroupLen = n
		out.WriteString(text[i : i+n])
		i += n
	}
	return out.String()
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isDigitSeparator(c byte) bool {
	return c == ' ' || c == '-' || c == '.'
}

func digitRunLen(s string) int {
	n := 0
	for n < len(s) && isDigit(s[n]) {
		n++
	}
	return n
}
