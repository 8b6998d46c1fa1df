package analyzer

import (
	"fmt"
	"strings"

	"cardsmith/models"
)

// FiredEntry names a lorebook entry and the keys that matched the sample.
type FiredEntry struct {
	Entry       string   `json:"entry"`
	MatchedKeys []string `json:"matched_keys"`
}

// TriggerReport is the result of replaying a sample message against a
// card's lorebook.
type TriggerReport struct {
	Fired       []FiredEntry `json:"fired"`
	Silent      []string     `json:"silent"`      // enabled but nothing matched
	Unreachable []string     `json:"unreachable"` // can never fire on any input
}

func entryLabel(e models.LorebookEntry, i int) string {
	if e.Name != "" {
		return e.Name
	}
	return fmt.Sprintf("entry_%d", i)
}

// LoreTriggers replays sample text against the lorebook: which entries
// fire, which stay silent, and which are dead weight (disabled or keyless
// non-constant entries).
func (a *Analyzer) LoreTriggers(book *models.Lorebook, sample string) *TriggerReport {
	report := &TriggerReport{}
	if book == nil {
		return report
	}
	lowerSample := strings.ToLower(sample)
	for i, e := range book.Entries {
		label := entryLabel(e, i)
		if !e.Enabled {
			report.Unreachable = append(report.Unreachable, label)
			continue
		}
		if e.Constant {
			report.Fired = append(report.Fired, FiredEntry{Entry: label})
			continue
		}
		if len(e.Keys) == 0 {
			report.Unreachable = append(report.Unreachable, label)
			continue
		}
		var matched []string
		for _, key := range e.Keys {
			if key == "" {
				continue
			}
			if e.CaseSensitive {
				if strings.Contains(sample, key) {
					matched = append(matched, key)
				}
			} else if strings.Contains(lowerSample, strings.ToLower(key)) {
				matched = append(matched, key)
			}
		}
		if len(matched) > 0 {
			report.Fired = append(report.Fired, FiredEntry{Entry: label, MatchedKeys: matched})
		} else {
			report.Silent = append(report.Silent, label)
		}
	}
	return report
}
