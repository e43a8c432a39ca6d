package analysis

import (
	"strings"
	"unicode"
)

// isWordRune reports whether r is part of a word token. Apostrophes stay in
// so contractions like "don't" survive tokenization.
func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\'' || r == '’'
}

// tokenize splits lowercased text into word tokens.
func tokenize(lower string) []string {
	return strings.FieldsFunc(lower, func(r rune) bool {
		return !isWordRune(r)
	})
}

// containsWord reports whether word occurs in text on word boundaries.
// Substring containment alone is not enough for single tokens: "classic"
// must not match "ass".
func containsWord(text, word string) bool {
	if word == "" {
		return false
	}
	for start := 0; ; {
		i := strings.Index(text[start:], word)
		if i < 0 {
			return false
		}
		i += start
		end := i + len(word)
		beforeOK := i == 0 || !isWordRune(lastRune(text[:i]))
		afterOK := end == len(text) || !isWordRune(firstRune(text[end:]))
		if beforeOK && afterOK {
			return true
		}
		start = end
	}
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}

func lastRune(s string) rune {
	var last rune
	for _, r := range s {
		last = r
	}
	return last
}

// matchesPhrase matches one lexicon term against lowercased text. Pure
// single-word terms require word boundaries; phrases and terms carrying
// punctuation match as substrings.
func matchesPhrase(lower, term string) bool {
	if term == "" {
		return false
	}
	if isSingleWordTerm(term) {
		return containsWord(lower, term)
	}
	return strings.Contains(lower, term)
}

func isSingleWordTerm(term string) bool {
	for _, r := range term {
		if !isWordRune(r) {
			return false
		}
	}
	return true
}

func matchesAnyPhrase(lower string, terms []string) bool {
	for _, t := range terms {
		if matchesPhrase(lower, t) {
			return true
		}
	}
	return false
}

func countAnyPhrase(lower string, terms []string) int {
	n := 0
	for _, t := range terms {
		if matchesPhrase(lower, t) {
			n++
		}
	}
	return n
}

// capsWordCount counts ALL-CAPS words of at least 2 letters.
func capsWordCount(content string) int {
	n := 0
	for _, w := range strings.Fields(content) {
		letters := 0
		upper := 0
		for _, r := range w {
			if unicode.IsLetter(r) {
				letters++
				if unicode.IsUpper(r) {
					upper++
				}
			}
		}
		if letters >= 2 && upper == letters {
			n++
		}
	}
	return n
}

// capitalRatio is the share of letters that are uppercase.
func capitalRatio(content string) float64 {
	letters := 0
	upper := 0
	for _, r := range content {
		if unicode.IsLetter(r) {
			letters++
			if unicode.IsUpper(r) {
				upper++
			}
		}
	}
	if letters == 0 {
		return 0
	}
	return float64(upper) / float64(letters)
}

// countEmoji counts table-known emoji occurrences in content.
func countEmoji(content string) int {
	n := 0
	for e := range emojiScores {
		n += strings.Count(content, e)
	}
	return n
}

// emojiScoreSum sums the sentiment weights of all table-known emoji in
// content, counting repeats.
func emojiScoreSum(content string) float64 {
	sum := 0.0
	for e, w := range emojiScores {
		if c := strings.Count(content, e); c > 0 {
			sum += w * float64(c)
		}
	}
	return sum
}
