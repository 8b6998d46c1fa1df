// Package analyzer runs the text checks the card editor surfaces:
// redundancy between a card's prose fields and lorebook trigger coverage.
package analyzer

import (
	"log/slog"
	"strings"

	"cardsmith/models"

	"github.com/neurosnap/sentences/english"
)

type Analyzer struct {
	logger *slog.Logger
	// sentences with fewer words than this are too generic to flag
	minWords int
}

func New(l *slog.Logger) *Analyzer {
	return &Analyzer{logger: l, minWords: 4}
}

// Redundancy is a pair of near-duplicate sentences living in different
// (or the same) card fields; the model will see both.
type Redundancy struct {
	FieldA     string  `json:"field_a"`
	FieldB     string  `json:"field_b"`
	SentenceA  string  `json:"sentence_a"`
	SentenceB  string  `json:"sentence_b"`
	Similarity float64 `json:"similarity"`
}

type fieldSentence struct {
	field  string
	text   string
	tokens map[string]bool
}

func normTokens(s string) map[string]bool {
	toks := map[string]bool{}
	for _, w := range strings.Fields(strings.ToLower(s)) {
		w = strings.Trim(w, ".,;:!?\"'()[]{}*")
		if w != "" {
			toks[w] = true
		}
	}
	return toks
}

func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	for t := range a {
		if b[t] {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}

func cardFields(card *models.CardFile) map[string]string {
	switch {
	case card.V3 != nil:
		d := card.V3.Data
		return map[string]string{
			"description": d.Description,
			"personality": d.Personality,
			"scenario":    d.Scenario,
			"first_mes":   d.FirstMes,
			"mes_example": d.MesExample,
		}
	case card.V2 != nil:
		v := card.V2
		return map[string]string{
			"description": v.Description,
			"personality": v.Personality,
			"scenario":    v.Scenario,
			"first_mes":   v.FirstMes,
			"mes_example": v.MesExample,
		}
	}
	return nil
}

// fieldOrder keeps reports deterministic; map iteration is not.
var fieldOrder = []string{"description", "personality", "scenario", "first_mes", "mes_example"}

// FindRedundancy flags sentence pairs across the card's prose fields whose
// normalized token sets overlap at or above threshold (0..1).
func (a *Analyzer) FindRedundancy(card *models.CardFile, threshold float64) ([]Redundancy, error) {
	tokenizer, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		return nil, err
	}
	fields := cardFields(card)
	var sents []fieldSentence
	for _, field := range fieldOrder {
		text := fields[field]
		if text == "" {
			continue
		}
		for _, s := range tokenizer.Tokenize(text) {
			trimmed := strings.TrimSpace(s.Text)
			toks := normTokens(trimmed)
			if len(toks) < a.minWords {
				continue
			}
			sents = append(sents, fieldSentence{field: field, text: trimmed, tokens: toks})
		}
	}
	var found []Redundancy
	for i := 0; i < len(sents); i++ {
		for j := i + 1; j < len(sents); j++ {
			sim := jaccard(sents[i].tokens, sents[j].tokens)
			if sim >= threshold {
				found = append(found, Redundancy{
					FieldA:     sents[i].field,
					FieldB:     sents[j].field,
					SentenceA:  sents[i].text,
					SentenceB:  sents[j].text,
					Similarity: sim,
				})
			}
		}
	}
	a.logger.Debug("redundancy scan", "sentences", len(sents), "findings", len(found))
	return found, nil
}
