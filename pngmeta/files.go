package pngmeta

import (
	"fmt"
	"os"
	"path"
	"strings"

	"cardsmith/models"
)

// ReadCardFile loads a PNG from disk and extracts the embedded card.
func ReadCardFile(fname string) (*models.CardFile, error) {
	data, err := os.ReadFile(fname)
	if err != nil {
		return nil, err
	}
	card, found, err := ExtractCard(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fname, err)
	}
	if !found {
		return nil, fmt.Errorf("no embedded card in png: %s", fname)
	}
	return card, nil
}

// ReadDirCards extracts cards from every .png in a directory. Files without
// card data are skipped rather than failing the whole scan.
func ReadDirCards(dirname string) ([]*models.CardFile, error) {
	files, err := os.ReadDir(dirname)
	if err != nil {
		return nil, err
	}
	resp := []*models.CardFile{}
	for _, f := range files {
		if !strings.HasSuffix(f.Name(), ".png") {
			continue
		}
		fpath := path.Join(dirname, f.Name())
		data, err := os.ReadFile(fpath)
		if err != nil {
			return nil, err
		}
		card, found, err := ExtractCard(data)
		if err != nil || !found {
			continue
		}
		resp = append(resp, card)
	}
	return resp, nil
}

// WriteCardToPng embeds the card into the PNG at srcPath and writes the
// result to outPath.
func WriteCardToPng(card *models.CardFile, srcPath, outPath string) error {
	data, err := os.ReadFile(srcPath)
	if err != nil {
		return err
	}
	out, err := EmbedCard(data, card)
	if err != nil {
		return err
	}
	return os.WriteFile(outPath, out, 0666)
}
