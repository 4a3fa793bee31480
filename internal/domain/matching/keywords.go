package matching

import (
	"iter"
	"strings"
	"unicode"
)

// DefaultStopWords are connective words and generic course labels that carry
// no competency signal.
var DefaultStopWords = []string{
	"de", "do", "da", "dos", "das",
	"para", "com", "em", "e",
	"curso", "bootcamp",
}

type Extractor struct {
	stopWords map[string]struct{}
}

// NewExtractor builds an extractor over the given stop-words. A nil slice
// selects DefaultStopWords; an empty non-nil slice disables filtering.
func NewExtractor(stopWords []string) *Extractor {
	if stopWords == nil {
		stopWords = DefaultStopWords
	}
	set := make(map[string]struct{}, len(stopWords))
	for _, w := range stopWords {
		w = Normalize(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		set[w] = struct{}{}
	}
	return &Extractor{stopWords: set}
}

// Keywords yields the keywords of text in source order. The sequence is
// restartable and holds no state between iterations.
func (e *Extractor) Keywords(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, tok := range strings.Fields(strings.ToLower(text)) {
			tok = trimToken(tok)
			if tok == "" {
				continue
			}
			if e.isStopWord(tok) {
				continue
			}
			kw := Normalize(tok)
			if e.isStopWord(kw) {
				continue
			}
			if !yield(kw) {
				return
			}
		}
	}
}

// trimToken drops sentence punctuation and enclosing brackets or quotes.
// Symbols that are part of a name, as in "c#", "c++" or "node.js", are kept.
// Tokens without any letter or digit are discarded.
func trimToken(tok string) string {
	tok = strings.TrimLeft(tok, `([{"'`)
	tok = strings.TrimRight(tok, `,.;:!?)]}"'`)
	if strings.IndexFunc(tok, isWordRune) < 0 {
		return ""
	}
	return tok
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func (e *Extractor) Extract(text string) []string {
	out := make([]string, 0)
	for kw := range e.Keywords(text) {
		out = append(out, kw)
	}
	return out
}

func (e *Extractor) isStopWord(tok string) bool {
	if e == nil {
		return false
	}
	_, ok := e.stopWords[tok]
	return ok
}

// ExtractKeywords runs the default extractor.
func ExtractKeywords(text string) []string {
	return defaultExtractor.Extract(text)
}

var defaultExtractor = NewExtractor(nil)
