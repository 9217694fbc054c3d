package chunker

import (
	"fmt"
	"strings"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
)

// SentenceSplitter segments prose into an ordered sequence of sentences.
// Whitespace-only sentences must not appear in the output.
type SentenceSplitter interface {
	Split(text string) []string
}

// EnglishSplitter segments text with a Punkt tokenizer trained on English.
type EnglishSplitter struct {
	tokenizer *sentences.DefaultSentenceTokenizer
}

func NewEnglishSplitter() (*EnglishSplitter, error) {
	t, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		return nil, fmt.Errorf("loading sentence tokenizer: %w", err)
	}
	return &EnglishSplitter{tokenizer: t}, nil
}

func (s *EnglishSplitter) Split(text string) []string {
	var out []string
	for _, sent := range s.tokenizer.Tokenize(text) {
		t := strings.TrimSpace(sent.Text)
		if t == "" {
			continue
		}
		out = append(out, t)
	}
	return out
}
