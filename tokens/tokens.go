// Package tokens reports how much of a chat-completion context window a
// card will eat. Counts are exact when a HuggingFace tokenizer.json is
// configured, otherwise a chars/4 estimate that tracks BPE closely enough
// for budgeting.
package tokens

import (
	"log/slog"
	"strings"
	"unicode/utf8"

	"cardsmith/models"

	"github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"
)

type Counter struct {
	logger *slog.Logger
	tk     *tokenizer.Tokenizer
}

// NewCounter loads the tokenizer at tkPath when given; an empty path or a
// load failure degrades to estimates rather than erroring.
func NewCounter(l *slog.Logger, tkPath string) *Counter {
	c := &Counter{logger: l}
	if tkPath == "" {
		return c
	}
	tk, err := pretrained.FromFile(tkPath)
	if err != nil {
		l.Warn("failed to load tokenizer, falling back to estimates",
			"path", tkPath, "error", err)
		return c
	}
	c.tk = tk
	return c
}

// Estimate approximates the token count without a vocabulary: four chars
// per token, never fewer tokens than words.
func Estimate(text string) int {
	if text == "" {
		return 0
	}
	est := (utf8.RuneCountInString(text) + 3) / 4
	if words := len(strings.Fields(text)); est < words {
		return words
	}
	return est
}

func (c *Counter) Count(text string) int {
	if c.tk == nil {
		return Estimate(text)
	}
	en, err := c.tk.EncodeSingle(text)
	if err != nil {
		c.logger.Warn("tokenizer encode failed, estimating", "error", err)
		return Estimate(text)
	}
	return len(en.Ids)
}

// FieldCounts breaks a card down per prompt-relevant field, plus a total.
func (c *Counter) FieldCounts(card *models.CardFile) map[string]int {
	fields := map[string]string{}
	switch {
	case card.V3 != nil:
		d := card.V3.Data
		fields["description"] = d.Description
		fields["personality"] = d.Personality
		fields["scenario"] = d.Scenario
		fields["first_mes"] = d.FirstMes
		fields["mes_example"] = d.MesExample
		fields["system_prompt"] = d.SystemPrompt
	case card.V2 != nil:
		v := card.V2
		fields["description"] = v.Description
		fields["personality"] = v.Personality
		fields["scenario"] = v.Scenario
		fields["first_mes"] = v.FirstMes
		fields["mes_example"] = v.MesExample
		fields["system_prompt"] = v.SystemPrompt
	}
	counts := make(map[string]int, len(fields)+1)
	total := 0
	for name, text := range fields {
		n := c.Count(text)
		counts[name] = n
		total += n
	}
	counts["total"] = total
	return counts
}
