package storage

import (
	"log/slog"

	"cardsmith/models"

	_ "github.com/glebarez/go-sqlite"
	"github.com/jmoiron/sqlx"
)

type CardSpace interface {
	ListCards() ([]models.CardRecord, error)
	GetCardByID(id uint32) (*models.CardRecord, error)
	UpsertCard(card *models.CardRecord) (*models.CardRecord, error)
	RemoveCard(id uint32) error
	ListVersions(cardID uint32) ([]models.CardVersion, error)
	AddVersion(v *models.CardVersion) (*models.CardVersion, error)
}

// FullRepo is everything the app wires together: card records, their
// version history, asset files and indexed document chunks.
type FullRepo interface {
	CardSpace
	AssetSpace
	ChunkSpace
}

type ProviderSQL struct {
	db        *sqlx.DB
	logger    *slog.Logger
	assetsDir string
}

func (p ProviderSQL) ListCards() ([]models.CardRecord, error) {
	resp := []models.CardRecord{}
	err := p.db.Select(&resp, "SELECT * FROM cards ORDER BY updated_at DESC;")
	return resp, err
}

func (p ProviderSQL) GetCardByID(id uint32) (*models.CardRecord, error) {
	resp := models.CardRecord{}
	err := p.db.Get(&resp, "SELECT * FROM cards WHERE id=$1;", id)
	return &resp, err
}

// UpsertCard inserts the card or, when it carries an id, replaces that row.
// A zero id means a fresh import; the id column is omitted then so
// AUTOINCREMENT assigns the next one instead of replacing row 0 every time.
func (p ProviderSQL) UpsertCard(card *models.CardRecord) (*models.CardRecord, error) {
	query := `
        INSERT INTO cards (name, spec, doc, created_at, updated_at)
        VALUES (:name, :spec, :doc, :created_at, :updated_at)
        RETURNING *;`
	if card.ID != 0 {
		query = `
        INSERT OR REPLACE INTO cards (id, name, spec, doc, created_at, updated_at)
        VALUES (:id, :name, :spec, :doc, :created_at, :updated_at)
        RETURNING *;`
	}
	stmt, err := p.db.PrepareNamed(query)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()
	var resp models.CardRecord
	err = stmt.Get(&resp, card)
	return &resp, err
}

func (p ProviderSQL) RemoveCard(id uint32) error {
	_, err := p.db.Exec("DELETE FROM cards WHERE id = $1;", id)
	return err
}

func (p ProviderSQL) ListVersions(cardID uint32) ([]models.CardVersion, error) {
	resp := []models.CardVersion{}
	err := p.db.Select(&resp,
		"SELECT * FROM card_versions WHERE card_id=$1 ORDER BY id DESC;", cardID)
	return resp, err
}

func (p ProviderSQL) AddVersion(v *models.CardVersion) (*models.CardVersion, error) {
	query := `
        INSERT INTO card_versions (card_id, doc, note)
        VALUES (:card_id, :doc, :note)
        RETURNING *;`
	stmt, err := p.db.PrepareNamed(query)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()
	var resp models.CardVersion
	err = stmt.Get(&resp, v)
	return &resp, err
}

func NewProviderSQL(dbPath, assetsDir string, logger *slog.Logger) FullRepo {
	// the schema leans on ON DELETE CASCADE, and sqlite keeps foreign keys
	// off unless every connection opts in; the dsn pragma covers the pool
	db, err := sqlx.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)")
	if err != nil {
		logger.Error("failed to open db", "error", err, "path", dbPath)
		return nil
	}
	p := ProviderSQL{db: db, logger: logger, assetsDir: assetsDir}
	p.Migrate()
	return p
}
