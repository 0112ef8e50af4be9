// Package quiz produces the canned five-question study quiz shown after a
// lecture is delivered. No model is called; the title only fills in the
// template.
package quiz

import (
	"fmt"
	"strings"
)

// Size is the number of questions Generate returns.
const Size = 5

type Question struct {
	Question      string
	Options       [4]string
	CorrectAnswer string
}

func Generate(title string) []Question {
	contentAnswer := "Media"
	if strings.Contains(strings.ToLower(title), "document") {
		contentAnswer = "Document"
	}

	return []Question{
		{
			Question:      fmt.Sprintf("Which is the main type of receptor introduced in '%s...'?", firstWord(title)),
			Options:       [4]string{"G-Protein Coupled", "Ion Channel", "Enzyme-linked", "Intracellular"},
			CorrectAnswer: "G-Protein Coupled",
		},
		{
			Question:      "What is the primary function of a ligand?",
			Options:       [4]string{"To break down cell walls", "To bind to a receptor", "To generate ATP", "To synthesize DNA"},
			CorrectAnswer: "To bind to a receptor",
		},
		{
			Question:      "How many questions are in this generated quiz?",
			Options:       [4]string{"3", "5", "7", "10"},
			CorrectAnswer: "5",
		},
		{
			Question:      "Is this feature using an LLM to provide a valuable study aid?",
			Options:       [4]string{"Yes, it is.", "No, it's just a file bot.", "Maybe", "I don't know"},
			CorrectAnswer: "Yes, it is.",
		},
		{
			Question:      "What is the primary content type of the lecture (Document or Media)?",
			Options:       [4]string{"Document", "Media", "Both", "None"},
			CorrectAnswer: contentAnswer,
		},
	}
}

// firstWord mirrors splitting on a single space: a leading space yields "".
func firstWord(title string) string {
	word, _, _ := strings.Cut(title, " ")
	return word
}

// Format renders questions as Markdown text.
func Format(title string, questions []Question) string {
	parts := []string{fmt.Sprintf("🧠 *Quiz for: %s* (%d Questions)\n", title, len(questions))}

	for i, q := range questions {
		parts = append(parts, fmt.Sprintf("*%d. %s*", i+1, q.Question))

		options := make([]string, 0, len(q.Options))
		for j, option := range q.Options {
			options = append(options, fmt.Sprintf("%c) %s", 'A'+j, option))
		}
		parts = append(parts, strings.Join(options, "\n"))
		parts = append(parts, fmt.Sprintf("  > Correct Answer: *%s*", q.CorrectAnswer))
		parts = append(parts, "---")
	}
	return strings.Join(parts, "\n")
}
