package main

import (
	"encoding/json"
	"os"
	"path"
	"path/filepath"
	"strings"

	"cardsmith/charx"
	"cardsmith/models"
	"cardsmith/pngmeta"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

var cardActions = []string{"export png", "export charx", "tokens", "analyze", "delete"}

func makeCardTable() *tview.Table {
	records, err := store.ListCards()
	if err != nil {
		logger.Error("failed to list cards", "error", err)
		records = nil
	}
	rows, cols := len(records), len(cardActions)+2
	cardTable := tview.NewTable().SetBorders(true)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			color := tcell.ColorWhite
			switch c {
			case 0:
				cardTable.SetCell(r, c,
					tview.NewTableCell(records[r].Name).
						SetTextColor(color).
						SetAlign(tview.AlignCenter))
			case 1:
				cardTable.SetCell(r, c,
					tview.NewTableCell(records[r].Spec).
						SetTextColor(color).
						SetAlign(tview.AlignCenter))
			default:
				cardTable.SetCell(r, c,
					tview.NewTableCell(cardActions[c-2]).
						SetTextColor(color).
						SetAlign(tview.AlignCenter))
			}
		}
	}
	cardTable.Select(0, 0).SetFixed(1, 1).SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEnter {
			cardTable.SetSelectable(true, true)
		}
	}).SetSelectedFunc(func(row int, column int) {
		if row >= len(records) || column < 2 {
			return
		}
		runCardAction(&records[row], cardActions[column-2])
	})
	return cardTable
}

func runCardAction(rec *models.CardRecord, action string) {
	card := models.ParseCard(json.RawMessage(rec.Doc))
	if card == nil {
		notify("[red]card %d: stored doc is not parsable", rec.ID)
		return
	}
	switch action {
	case "export png":
		exportCardPng(rec, card)
	case "export charx":
		exportCardCharx(rec, card)
	case "tokens":
		for field, n := range counter.FieldCounts(card) {
			notify("%s: %d tokens", field, n)
		}
	case "analyze":
		analyzeCard(card)
	case "delete":
		if err := store.RemoveCard(rec.ID); err != nil {
			notify("[red]failed to delete card: %v", err)
			return
		}
		notify("deleted card %d (%s)", rec.ID, rec.Name)
		rebuildMainPage()
	}
}

// exportCardPng embeds the card into its base image from the cards dir.
func exportCardPng(rec *models.CardRecord, card *models.CardFile) {
	base := filepath.Join(cfg.CardsDir, rec.Name+".png")
	if _, err := os.Stat(base); err != nil {
		notify("[red]no base image at %s; put one there first", base)
		return
	}
	if err := os.MkdirAll(cfg.ExportDir, 0755); err != nil {
		notify("[red]%v", err)
		return
	}
	out := filepath.Join(cfg.ExportDir, rec.Name+".card.png")
	if err := pngmeta.WriteCardToPng(card, base, out); err != nil {
		notify("[red]png export failed: %v", err)
		return
	}
	notify("wrote %s", out)
}

func exportCardCharx(rec *models.CardRecord, card *models.CardFile) {
	resolved := resolveCardAssets(card)
	for _, p := range charx.ValidateBuild(card, resolved) {
		notify("[orange]warning: %s", p)
	}
	res, err := builder.Build(card, resolved)
	if err != nil {
		notify("[red]charx build failed: %v", err)
		return
	}
	if err := os.MkdirAll(cfg.ExportDir, 0755); err != nil {
		notify("[red]%v", err)
		return
	}
	out := filepath.Join(cfg.ExportDir, rec.Name+".charx")
	if err := os.WriteFile(out, res.Archive, 0666); err != nil {
		notify("[red]%v", err)
		return
	}
	notify("wrote %s (%d assets, %d skipped)", out, res.AssetCount, len(res.Skipped))
}

func analyzeCard(card *models.CardFile) {
	finds, err := anlz.FindRedundancy(card, 0.6)
	if err != nil {
		notify("[red]analysis failed: %v", err)
		return
	}
	if len(finds) == 0 {
		notify("no redundant sentences found")
	}
	for _, f := range finds {
		notify("[orange]%.0f%% overlap %s/%s: %q vs %q",
			f.Similarity*100, f.FieldA, f.FieldB, f.SentenceA, f.SentenceB)
	}
	if card.V3 != nil && card.V3.Data.CharacterBook != nil {
		report := anlz.LoreTriggers(card.V3.Data.CharacterBook, card.V3.Data.FirstMes)
		notify("lorebook: %d fired, %d silent, %d unreachable",
			len(report.Fired), len(report.Silent), len(report.Unreachable))
	}
}

// scanCardsDir imports every png and charx in the cards dir, returning how
// many cards landed in storage.
func scanCardsDir() int {
	files, err := os.ReadDir(cfg.CardsDir)
	if err != nil {
		notify("[red]failed to read %s: %v", cfg.CardsDir, err)
		return 0
	}
	n := 0
	for _, f := range files {
		fpath := path.Join(cfg.CardsDir, f.Name())
		var card *models.CardFile
		switch {
		case strings.HasSuffix(f.Name(), ".png"):
			data, err := os.ReadFile(fpath)
			if err != nil {
				continue
			}
			c, found, err := pngmeta.ExtractCard(data)
			if err != nil || !found {
				continue
			}
			card = c
		case strings.HasSuffix(f.Name(), ".charx"):
			data, err := os.ReadFile(fpath)
			if err != nil {
				continue
			}
			c, err := charx.Extract(data)
			if err != nil {
				notify("[red]%s: %v", f.Name(), err)
				continue
			}
			card = c
		default:
			continue
		}
		if _, err := storeCard(card); err != nil {
			notify("[red]failed to store %s: %v", f.Name(), err)
			continue
		}
		n++
	}
	return n
}
