package quiz

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	qs := Generate("Receptors and ligands")
	require.Len(t, qs, Size)
	assert.Contains(t, qs[0].Question, "'Receptors...'")
	assert.Equal(t, "Media", qs[4].CorrectAnswer)

	for _, q := range qs {
		assert.Contains(t, q.Options, q.CorrectAnswer)
	}
}

func TestGenerate_DocumentTitle(t *testing.T) {
	qs := Generate("Some DOCUMENT scan")
	assert.Equal(t, "Document", qs[4].CorrectAnswer)
}

func TestFirstWord(t *testing.T) {
	assert.Equal(t, "Intro", firstWord("Intro to pharmacology"))
	assert.Equal(t, "single", firstWord("single"))
	assert.Equal(t, "", firstWord(" leading"))
}

func TestFormat(t *testing.T) {
	out := Format("Intro", Generate("Intro"))
	assert.True(t, strings.HasPrefix(out, "🧠 *Quiz for: Intro* (5 Questions)\n"))
	assert.Contains(t, out, "*1. Which is the main type")
	assert.Contains(t, out, "A) G-Protein Coupled\nB) Ion Channel")
	assert.Contains(t, out, "  > Correct Answer: *To bind to a receptor*")
	assert.Equal(t, Size, strings.Count(out, "---"))
}
