// Package parsing provides text normalization shared by ATS scoring and resume diffing.
package parsing

import (
	"iter"
	"strings"
	"unicode"
)

// Tokens returns a lazy sequence of normalized tokens: lowercased, with
// punctuation stripped. '+' and '#' are kept when they trail a word (c++, c#),
// and a '.' between two alphanumerics joins them (node.js -> nodejs).
// Stemming is never applied here.
func Tokens(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		runes := []rune(strings.ToLower(text))
		var cur strings.Builder

		flush := func() bool {
			if cur.Len() == 0 {
				return true
			}
			tok := cur.String()
			cur.Reset()
			return yield(tok)
		}

		for i, r := range runes {
			var next rune
			if i+1 < len(runes) {
				next = runes[i+1]
			}

			switch {
			case isAlnum(r):
				cur.WriteRune(r)
			case (r == '+' || r == '#') && cur.Len() > 0 && !isAlnum(next):
				cur.WriteRune(r)
			case r == '.' && cur.Len() > 0 && isAlnum(runes[i-1]) && isAlnum(next):
				// joined
			default:
				if !flush() {
					return
				}
			}
		}
		flush()
	}
}

// TokenList collects Tokens into a slice.
func TokenList(text string) []string {
	var out []string
	for tok := range Tokens(text) {
		out = append(out, tok)
	}
	return out
}

// NormalizeText returns the tokens of text joined by single spaces.
func NormalizeText(text string) string {
	return strings.Join(TokenList(text), " ")
}

// NGrams returns the space-joined n-grams of tokens, in order.
func NGrams(tokens []string, n int) []string {
	if n <= 0 || len(tokens) < n {
		return nil
	}
	out := make([]string, 0, len(tokens)-n+1)
	for i := 0; i+n <= len(tokens); i++ {
		out = append(out, strings.Join(tokens[i:i+n], " "))
	}
	return out
}

// Grams returns every n-gram of tokens for n in 1..maxN.
func Grams(tokens []string, maxN int) []string {
	var out []string
	for n := 1; n <= maxN; n++ {
		out = append(out, NGrams(tokens, n)...)
	}
	return out
}

// Stem strips common English inflection suffixes. It is deliberately light
// so that results stay predictable; tokens carrying '+' or '#' are returned
// unchanged.
func Stem(token string) string {
	if strings.ContainsAny(token, "+#") {
		return token
	}
	n := len(token)
	switch {
	case n > 4 && strings.HasSuffix(token, "ies"):
		return token[:n-3] + "y"
	case n > 5 && strings.HasSuffix(token, "ing"):
		return token[:n-3]
	case n > 4 && strings.HasSuffix(token, "ed"):
		return token[:n-2]
	case n > 4 && (strings.HasSuffix(token, "sses") || strings.HasSuffix(token, "ches") ||
		strings.HasSuffix(token, "shes") || strings.HasSuffix(token, "xes")):
		return token[:n-2]
	case n > 3 && strings.HasSuffix(token, "s") && !strings.HasSuffix(token, "ss") &&
		!strings.HasSuffix(token, "us") && !strings.HasSuffix(token, "is"):
		return token[:n-1]
	}
	return token
}

// WordCount counts whitespace-separated words, the unit used for change statistics.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

func isAlnum(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
