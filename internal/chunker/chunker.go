package chunker

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoSentences is returned when the input yields no sentences at all.
var ErrNoSentences = errors.New("chunker: no sentences in input")

const (
	DefaultMaxWords     = 200
	DefaultOverlapWords = 50
)

// Chunker splits prose into overlapping, sentence-aligned chunks. Each chunk
// stays within maxWords unless a single sentence alone exceeds it, in which
// case that sentence becomes its own oversized chunk. The trailing
// overlapWords worth of sentences of a chunk reappear at the head of the
// next one.
type Chunker struct {
	splitter     SentenceSplitter
	maxWords     int
	overlapWords int
}

func New(splitter SentenceSplitter, maxWords, overlapWords int) (*Chunker, error) {
	if splitter == nil {
		return nil, errors.New("chunker: nil sentence splitter")
	}
	if maxWords <= 0 {
		return nil, fmt.Errorf("chunker: max words must be positive, got %d", maxWords)
	}
	if overlapWords < 0 {
		return nil, fmt.Errorf("chunker: overlap words must not be negative, got %d", overlapWords)
	}
	if overlapWords >= maxWords {
		return nil, fmt.Errorf("chunker: overlap words (%d) must be smaller than max words (%d)",
			overlapWords, maxWords)
	}
	return &Chunker{splitter: splitter, maxWords: maxWords, overlapWords: overlapWords}, nil
}

// Chunk segments text into sentences and groups them into overlapping
// chunks. Deterministic: the same text always yields the same chunks.
func (c *Chunker) Chunk(text string) ([]string, error) {
	sents := c.splitter.Split(text)
	if len(sents) == 0 {
		return nil, ErrNoSentences
	}
	return c.chunkSentences(sents), nil
}

func (c *Chunker) chunkSentences(sents []string) []string {
	var chunks []string
	var buf []string
	words := 0

	for _, sent := range sents {
		w := wordCount(sent)
		if words+w > c.maxWords && len(buf) > 0 {
			chunks = append(chunks, strings.Join(buf, " "))
			buf, words = c.overlapSeed(buf)
			if words+w > c.maxWords {
				// The seed cannot absorb this sentence either. Re-emitting it
				// would duplicate content already written out, so the overlap
				// is dropped and the buffer restarts.
				buf, words = nil, 0
			}
		}
		buf = append(buf, sent)
		words += w
	}

	if len(buf) > 0 {
		chunks = append(chunks, strings.Join(buf, " "))
	}
	return chunks
}

// overlapSeed walks backward through a just-closed chunk, collecting
// sentences until at least overlapWords words are gathered (including the
// sentence that crosses the threshold).
func (c *Chunker) overlapSeed(closed []string) ([]string, int) {
	if c.overlapWords == 0 {
		return nil, 0
	}
	var seed []string
	words := 0
	for i := len(closed) - 1; i >= 0 && words < c.overlapWords; i-- {
		seed = append([]string{closed[i]}, seed...)
		words += wordCount(closed[i])
	}
	return seed, words
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}
