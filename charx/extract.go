package charx

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"

	"cardsmith/models"
)

var ErrNoCardEntry = errors.New("archive has no card.json")

// Extract reads the card document back out of a CHARX archive.
func Extract(archive []byte) (*models.CardFile, error) {
	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return nil, fmt.Errorf("bad charx archive: %w", err)
	}
	for _, f := range zr.File {
		if f.Name != cardEntryName {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		raw, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, err
		}
		card := models.ParseCard(raw)
		if card == nil {
			return nil, errors.New("card.json is not a recognizable card document")
		}
		return card, nil
	}
	return nil, ErrNoCardEntry
}

// ExtractAsset pulls one embedded asset's bytes by its archive-relative
// path (the Path field of a parsed embeded:// URI).
func ExtractAsset(archive []byte, path string) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return nil, fmt.Errorf("bad charx archive: %w", err)
	}
	for _, f := range zr.File {
		if f.Name != path {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, fmt.Errorf("no such entry in archive: %s", path)
}
