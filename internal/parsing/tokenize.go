// Package parsing turns free text into normalized keyword lists.
package parsing

import (
	"regexp"
	"slices"
	"strings"

	"github.com/jonathan/jd-matcher/internal/types"
)

// nonKeywordChars matches everything a keyword token may not contain.
var nonKeywordChars = regexp.MustCompile(`[^a-z0-9+\-# ]`)

var digitsOnly = regexp.MustCompile(`^\d+$`)

// stopWords are dropped from every token stream. The two parenthesized
// entries never survive the character filter; they are kept for parity with
// the published list.
var stopWords = map[string]bool{
	"the": true, "is": true, "a": true, "an": true, "and": true, "or": true,
	"to": true, "of": true, "in": true, "for": true, "(3": true, "yrs)": true,
	"with": true, "by": true, "from": true, "as": true, "this": true, "that": true,
	"these": true, "those": true, "be": true, "are": true, "it": true, "its": true,
	"your": true, "you": true, "we": true, "our": true, "they": true, "their": true,
	"i": true, "me": true, "my": true, "role": true, "requirements": true,
	"skills": true, "experience": true, "yrs": true, "year": true, "years": true,
	"responsibilities": true, "manager": true, "hiring": true,
}

// isStopWord reports whether word is in the fixed stop-word set.
func isStopWord(word string) bool {
	return stopWords[word]
}

// Tokenize lowercases text, strips characters outside [a-z0-9+-# ] and
// returns the surviving whitespace-separated tokens. Stop-words, tokens of
// length two or less and purely numeric tokens are dropped.
func Tokenize(text string) []string {
	cleaned := nonKeywordChars.ReplaceAllString(strings.ToLower(text), " ")
	fields := strings.Fields(cleaned)

	tokens := make([]string, 0, len(fields))
	for _, w := range fields {
		if isStopWord(w) || len(w) <= 2 || digitsOnly.MatchString(w) {
			continue
		}
		tokens = append(tokens, w)
	}
	return tokens
}

// KeywordFrequency counts tokens and returns them by count descending.
// Equal counts keep first-encounter order.
func KeywordFrequency(tokens []string) []types.KeywordCount {
	index := make(map[string]int, len(tokens))
	freq := make([]types.KeywordCount, 0, len(tokens))
	for _, tok := range tokens {
		if i, ok := index[tok]; ok {
			freq[i].Count++
			continue
		}
		index[tok] = len(freq)
		freq = append(freq, types.KeywordCount{Token: tok, Count: 1})
	}

	slices.SortStableFunc(freq, func(a, b types.KeywordCount) int {
		return b.Count - a.Count
	})
	return freq
}

// TopKeywords returns the n most frequent tokens of text.
func TopKeywords(text string, n int) []string {
	if n <= 0 {
		return []string{}
	}
	freq := KeywordFrequency(Tokenize(text))
	if len(freq) > n {
		freq = freq[:n]
	}
	top := make([]string, len(freq))
	for i, kc := range freq {
		top[i] = kc.Token
	}
	return top
}

// Missing returns the entries of want that are absent from have, in want's order.
func Missing(want, have []string) []string {
	present := make(map[string]bool, len(have))
	for _, h := range have {
		present[h] = true
	}
	out := make([]string, 0, len(want))
	for _, w := range want {
		if !present[w] {
			out = append(out, w)
		}
	}
	return out
}
