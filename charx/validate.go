package charx

import (
	"fmt"

	"cardsmith/models"
)

// ValidateBuild is an advisory pre-export check. Problems never block a
// build; the UI shows them so the creator can fix the card first.
func ValidateBuild(card *models.CardFile, resolved []models.ResolvedAsset) []string {
	var problems []string
	if card.Spec != models.SpecV3 || card.V3 == nil {
		problems = append(problems, "charx export requires a v3 card")
		return problems
	}
	assets := card.V3.Data.Assets
	if len(assets) == 0 {
		problems = append(problems, "card has no assets; archive will only contain card.json")
	}
	mainIcons := 0
	for _, a := range assets {
		if a.Type == models.AssetIcon && (a.IsMain || a.Name == "main") {
			mainIcons++
		}
	}
	if mainIcons != 1 {
		problems = append(problems,
			fmt.Sprintf("expected exactly one main icon, found %d", mainIcons))
	}
	return problems
}
