package storage

import (
	"fmt"
	"os"
	"path"
	"path/filepath"

	"cardsmith/asseturi"
	"cardsmith/models"
)

// AssetSource is the resolver the CHARX builder consumes:
// (type, name) -> bytes + mimetype.
type AssetSource interface {
	ResolveAsset(typ, name string) (*models.ResolvedAsset, error)
}

type AssetSpace interface {
	AssetSource
	ListAssets(cardID uint32) ([]models.AssetRecord, error)
	PutAsset(rec *models.AssetRecord, data []byte) (*models.AssetRecord, error)
	RemoveAsset(id uint32) error
}

func (p ProviderSQL) ListAssets(cardID uint32) ([]models.AssetRecord, error) {
	resp := []models.AssetRecord{}
	err := p.db.Select(&resp, "SELECT * FROM assets WHERE card_id=$1 ORDER BY id;", cardID)
	return resp, err
}

// PutAsset stores the bytes under the assets dir and records the row.
// The on-disk name comes from the record's own identity, not user input.
func (p ProviderSQL) PutAsset(rec *models.AssetRecord, data []byte) (*models.AssetRecord, error) {
	ext := asseturi.MimeToExt(rec.Mimetype)
	fname := fmt.Sprintf("%d_%s_%s.%s", rec.CardID, rec.Type, rec.Name, ext)
	fpath := filepath.Join(p.assetsDir, fname)
	if err := os.MkdirAll(p.assetsDir, 0755); err != nil {
		return nil, err
	}
	if err := os.WriteFile(fpath, data, 0666); err != nil {
		return nil, err
	}
	rec.Path = fname
	query := `
        INSERT OR REPLACE INTO assets (card_id, type, name, path, mimetype)
        VALUES (:card_id, :type, :name, :path, :mimetype)
        RETURNING *;`
	stmt, err := p.db.PrepareNamed(query)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()
	var resp models.AssetRecord
	err = stmt.Get(&resp, rec)
	return &resp, err
}

func (p ProviderSQL) RemoveAsset(id uint32) error {
	rec := models.AssetRecord{}
	if err := p.db.Get(&rec, "SELECT * FROM assets WHERE id=$1;", id); err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(p.assetsDir, rec.Path)); err != nil && !os.IsNotExist(err) {
		return err
	}
	_, err := p.db.Exec("DELETE FROM assets WHERE id = $1;", id)
	return err
}

// ResolveAsset backs an asset descriptor with file bytes from the assets
// dir. Paths stored in the db are relative; anything trying to escape the
// assets dir is rejected.
func (p ProviderSQL) ResolveAsset(typ, name string) (*models.ResolvedAsset, error) {
	rec := models.AssetRecord{}
	err := p.db.Get(&rec,
		"SELECT * FROM assets WHERE type=$1 AND name=$2 ORDER BY id DESC LIMIT 1;", typ, name)
	if err != nil {
		return nil, err
	}
	clean := path.Clean(rec.Path)
	if path.IsAbs(clean) || clean == ".." || len(clean) > 2 && clean[:3] == "../" {
		return nil, fmt.Errorf("asset path escapes assets dir: %s", rec.Path)
	}
	data, err := os.ReadFile(filepath.Join(p.assetsDir, clean))
	if err != nil {
		return nil, err
	}
	return &models.ResolvedAsset{
		Descriptor: models.AssetDescriptor{
			Type: models.AssetType(rec.Type),
			Name: rec.Name,
		},
		Bytes:    data,
		Mimetype: rec.Mimetype,
		Size:     int64(len(data)),
	}, nil
}
