package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// periodSplitter splits on "." so tests control sentence boundaries exactly.
type periodSplitter struct{}

func (periodSplitter) Split(text string) []string {
	var out []string
	for _, s := range strings.Split(text, ".") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		out = append(out, s+".")
	}
	return out
}

func TestNew_Validation(t *testing.T) {
	splitter := periodSplitter{}

	tests := []struct {
		name     string
		max      int
		overlap  int
		splitter SentenceSplitter
		wantErr  bool
	}{
		{"defaults", DefaultMaxWords, DefaultOverlapWords, splitter, false},
		{"nil splitter", 200, 50, nil, true},
		{"zero max words", 0, 0, splitter, true},
		{"negative overlap", 200, -1, splitter, true},
		{"overlap equals max", 200, 200, splitter, true},
		{"overlap exceeds max", 200, 300, splitter, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.splitter, tt.max, tt.overlap)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestChunk_FiveFourWordSentences(t *testing.T) {
	// Five sentences of four words each, max 10 words and overlap 3: every
	// chunk holds two sentences and each boundary carries one sentence over.
	s1 := "one two three four."
	s2 := "five six seven eight."
	s3 := "nine ten eleven twelve."
	s4 := "thirteen fourteen fifteen sixteen."
	s5 := "seventeen eighteen nineteen twenty."
	text := strings.Join([]string{s1, s2, s3, s4, s5}, " ")

	ck, err := New(periodSplitter{}, 10, 3)
	require.NoError(t, err)

	chunks, err := ck.Chunk(text)
	require.NoError(t, err)

	want := []string{
		s1 + " " + s2,
		s2 + " " + s3,
		s3 + " " + s4,
		s4 + " " + s5,
	}
	assert.Equal(t, want, chunks)
}

func TestChunk_WordBound(t *testing.T) {
	// 40 sentences of 7 words each; no chunk may exceed the bound.
	sent := "alpha bravo charlie delta echo foxtrot golf."
	text := strings.Repeat(sent+" ", 40)

	ck, err := New(periodSplitter{}, 30, 10)
	require.NoError(t, err)

	chunks, err := ck.Chunk(text)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	for i, chunk := range chunks {
		assert.LessOrEqual(t, len(strings.Fields(chunk)), 30, "chunk %d over the word bound", i)
	}
}

func TestChunk_OverlapSentencesIdentical(t *testing.T) {
	sentences := []string{
		"the quick brown fox jumps.",
		"pack my box with five dozen jugs.",
		"how vexingly quick daft zebras jump.",
		"sphinx of black quartz judge my vow.",
		"waltz bad nymph for quick jigs vex.",
		"five boxing wizards jump quickly tonight.",
	}
	text := strings.Join(sentences, " ")

	ck, err := New(periodSplitter{}, 15, 6)
	require.NoError(t, err)

	chunks, err := ck.Chunk(text)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	// Whenever content carried over, the next chunk must begin with a
	// byte-identical suffix of its predecessor.
	for i := 1; i < len(chunks); i++ {
		head := strings.SplitN(chunks[i], ". ", 2)[0] + "."
		assert.True(t, strings.HasSuffix(chunks[i-1], head),
			"chunk %d head %q not a suffix of chunk %d", i, head, i-1)
	}
}

func TestChunk_Deterministic(t *testing.T) {
	text := strings.Repeat("some words make a sentence here. ", 25)
	ck, err := New(periodSplitter{}, 20, 5)
	require.NoError(t, err)

	first, err := ck.Chunk(text)
	require.NoError(t, err)
	second, err := ck.Chunk(text)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestChunk_RoundTrip(t *testing.T) {
	sentences := []string{
		"red green blue.",
		"cyan magenta yellow black.",
		"one two three four five six seven.",
		"short.",
		"a b c d e f g h i j.",
	}
	text := strings.Join(sentences, " ")

	ck, err := New(periodSplitter{}, 12, 4)
	require.NoError(t, err)

	chunks, err := ck.Chunk(text)
	require.NoError(t, err)

	joined := strings.Join(chunks, " ")
	for _, sent := range sentences {
		assert.Contains(t, joined, sent, "sentence dropped from all chunks")
	}
}

func TestChunk_OversizedSentenceBecomesOwnChunk(t *testing.T) {
	big := strings.TrimSpace(strings.Repeat("word ", 500)) + "."
	text := "a small lead sentence. " + big + " a small tail sentence."

	ck, err := New(periodSplitter{}, 200, 50)
	require.NoError(t, err)

	chunks, err := ck.Chunk(text)
	require.NoError(t, err)

	found := false
	for _, chunk := range chunks {
		if chunk == big {
			found = true
		}
	}
	assert.True(t, found, "oversized sentence should form its own chunk, got %d chunks", len(chunks))
}

func TestChunk_OversizedOnlySentence(t *testing.T) {
	big := strings.TrimSpace(strings.Repeat("word ", 500)) + "."

	ck, err := New(periodSplitter{}, 200, 50)
	require.NoError(t, err)

	chunks, err := ck.Chunk(big)
	require.NoError(t, err)
	assert.Equal(t, []string{big}, chunks)
}

func TestChunk_SingleChunkUnderBound(t *testing.T) {
	ck, err := New(periodSplitter{}, 200, 50)
	require.NoError(t, err)

	chunks, err := ck.Chunk("just one tiny sentence here.")
	require.NoError(t, err)
	assert.Len(t, chunks, 1)
}

func TestChunk_ZeroOverlap(t *testing.T) {
	sent := "one two three four five."
	text := strings.Repeat(sent+" ", 4)

	ck, err := New(periodSplitter{}, 10, 0)
	require.NoError(t, err)

	chunks, err := ck.Chunk(text)
	require.NoError(t, err)
	assert.Equal(t, []string{sent + " " + sent, sent + " " + sent}, chunks)
}

func TestChunk_EmptyInput(t *testing.T) {
	ck, err := New(periodSplitter{}, 200, 50)
	require.NoError(t, err)

	_, err = ck.Chunk("   ")
	assert.ErrorIs(t, err, ErrNoSentences)
}

func TestEnglishSplitter(t *testing.T) {
	splitter, err := NewEnglishSplitter()
	require.NoError(t, err)

	sents := splitter.Split("The cat sat on the mat. The dog barked loudly at it.")
	require.Len(t, sents, 2)
	assert.Equal(t, "The cat sat on the mat.", sents[0])
	assert.Equal(t, "The dog barked loudly at it.", sents[1])

	assert.Empty(t, splitter.Split("   \n\t "))
}
