package conversation

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/reibun/reibunbot/internal/ai"
)

// SentenceSchema is the structured-output contract sent with every request.
var SentenceSchema = ai.ObjectSchema{
	Name:        "japanese_sentence",
	Description: "An example Japanese sentence with its Hiragana reading and English translation.",
	Fields: []ai.Field{
		{Name: "sentence", Description: "JP sentence to give to the user"},
		{Name: "as_hiragana", Description: "The sentence, but entirely in Hiragana."},
		{Name: "as_english", Description: "The sentence, in English."},
	},
}

// Sentence is a decoded exercise reply.
type Sentence struct {
	Sentence   string `json:"sentence"`
	AsHiragana string `json:"as_hiragana"`
	AsEnglish  string `json:"as_english"`
}

// ParseSentence decodes an AI reply. Malformed JSON or any empty field
// yields ErrNoContent. Fields are reduced to a single line each.
func ParseSentence(raw string) (Sentence, error) {
	var s Sentence
	if err := json.Unmarshal([]byte(cleanReply(raw)), &s); err != nil {
		return Sentence{}, fmt.Errorf("%w: %v", ErrNoContent, err)
	}

	s.Sentence = cleanField(s.Sentence)
	s.AsHiragana = cleanField(s.AsHiragana)
	s.AsEnglish = cleanField(s.AsEnglish)

	switch {
	case s.Sentence == "":
		return Sentence{}, fmt.Errorf("%w: missing sentence", ErrNoContent)
	case s.AsHiragana == "":
		return Sentence{}, fmt.Errorf("%w: missing as_hiragana", ErrNoContent)
	case s.AsEnglish == "":
		return Sentence{}, fmt.Errorf("%w: missing as_english", ErrNoContent)
	}
	return s, nil
}

// Format renders the exercise with the reading and translation behind
// Discord spoiler bars.
func (s Sentence) Format() string {
	return fmt.Sprintf("%s\n||in Hiragana: %s||\n||in English: %s||", s.Sentence, s.AsHiragana, s.AsEnglish)
}

func firstLine(text string) string {
	line, _, _ := strings.Cut(text, "\n")
	return line
}
