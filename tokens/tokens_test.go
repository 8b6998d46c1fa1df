package tokens

import (
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"

	"cardsmith/models"
)

func testCounter() *Counter {
	return NewCounter(slog.New(slog.NewTextHandler(io.Discard, nil)), "")
}

func TestEstimate(t *testing.T) {
	if got := Estimate(""); got != 0 {
		t.Errorf("Estimate(\"\") = %d", got)
	}
	// never fewer tokens than words
	text := "a b c d e f"
	if got := Estimate(text); got < 6 {
		t.Errorf("Estimate(%q) = %d, want >= 6", text, got)
	}
	// longer text never estimates lower
	short := Estimate("The scholar waits.")
	long := Estimate("The scholar waits. " + strings.Repeat("She reads on through the night. ", 10))
	if long <= short {
		t.Errorf("long text estimate %d <= short %d", long, short)
	}
}

func TestCountFallsBackToEstimate(t *testing.T) {
	c := testCounter()
	text := "Counting without a vocabulary still gives a usable number."
	if got, want := c.Count(text), Estimate(text); got != want {
		t.Errorf("Count() = %d, want estimate %d", got, want)
	}
}

func TestMissingTokenizerFileDegrades(t *testing.T) {
	c := NewCounter(slog.New(slog.NewTextHandler(io.Discard, nil)), "/does/not/exist.json")
	if c.tk != nil {
		t.Fatal("counter loaded a tokenizer from a missing file")
	}
	if got := c.Count("still works"); got == 0 {
		t.Error("degraded counter returned 0 for non-empty text")
	}
}

func TestFieldCounts(t *testing.T) {
	raw := `{
		"spec": "chara_card_v3",
		"spec_version": "3.0",
		"data": {
			"name": "Morgan",
			"description": "A wandering scholar of old archives.",
			"personality": "curious",
			"scenario": "",
			"first_mes": "Oh, a visitor!",
			"mes_example": ""
		}
	}`
	card := models.ParseCard(json.RawMessage(raw))
	if card == nil {
		t.Fatal("fixture did not parse")
	}
	counts := testCounter().FieldCounts(card)
	if counts["scenario"] != 0 {
		t.Errorf("empty field counted: %d", counts["scenario"])
	}
	if counts["description"] == 0 {
		t.Error("description not counted")
	}
	sum := 0
	for field, n := range counts {
		if field != "total" {
			sum += n
		}
	}
	if counts["total"] != sum {
		t.Errorf("total = %d, fields sum to %d", counts["total"], sum)
	}
}
