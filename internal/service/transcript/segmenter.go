// Package transcript converts the speech service's raw word/confidence
// output into sentence groupings. Both transformations are pure: no
// state survives a call, and rerunning on the same input yields the
// same output.
package transcript

import (
	"strconv"

	"media-transcription-service/internal/apperr"
	"media-transcription-service/internal/models"
)

// sentenceBoundaries is the enumerated set of tokens that close a
// sentence. Boundary detection is exact string equality on ASCII
// punctuation; anything smarter breaks compatibility with stored
// transcripts.
var sentenceBoundaries = map[string]bool{
	".": true,
	"!": true,
	"?": true,
}

// HighestConfidence picks the alternative with the numerically greatest
// confidence. Ties keep the earliest-listed candidate: iteration starts
// at the second element and only a strictly greater confidence displaces
// the current winner.
func HighestConfidence(alternatives []models.Alternative) (models.Alternative, error) {
	if len(alternatives) == 0 {
		return models.Alternative{}, apperr.New(apperr.CodeInvalidInput, "recognized item has no alternatives")
	}
	highest := alternatives[0]
	highestConf := parseConfidence(highest.Confidence)
	for _, alt := range alternatives[1:] {
		if c := parseConfidence(alt.Confidence); c > highestConf {
			highest = alt
			highestConf = c
		}
	}
	return highest, nil
}

// parseConfidence reads a decimal confidence string. Unparseable values
// score zero rather than failing the whole transcript.
func parseConfidence(s string) float64 {
	c, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return c
}

// Segment groups an ordered item sequence into sentences. Each item
// contributes its winning alternative as one word; a word whose content
// is a boundary token closes the current sentence. Words left in the
// buffer after the final item are dropped: an unterminated trailing
// fragment is never emitted, which callers depend on.
func Segment(items []models.RecognizedItem) ([]models.Sentence, error) {
	sentences := []models.Sentence{}
	var words []models.Word

	for _, item := range items {
		chosen, err := HighestConfidence(item.Alternatives)
		if err != nil {
			return nil, err
		}
		words = append(words, models.Word{
			Content:    chosen.Content,
			Confidence: parseConfidence(chosen.Confidence),
			StartTime:  item.StartTime,
			EndTime:    item.EndTime,
		})
		if sentenceBoundaries[chosen.Content] {
			sentences = append(sentences, closeSentence(words))
			words = nil
		}
	}

	return sentences, nil
}

// closeSentence materializes the buffered words into a Sentence. The end
// time comes from the second-to-last word: the closing punctuation token
// is last and carries no timing of its own.
func closeSentence(words []models.Word) models.Sentence {
	s := models.Sentence{
		StartTime: words[0].StartTime,
		Words:     words,
	}
	if len(words) >= 2 {
		s.EndTime = words[len(words)-2].EndTime
	} else {
		s.EndTime = words[len(words)-1].EndTime
	}
	return s
}
