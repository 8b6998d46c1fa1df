package models

import "time"

type CardRecord struct {
	ID        uint32    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Spec      string    `db:"spec" json:"spec"`
	Doc       string    `db:"doc" json:"doc"` // card JSON as stored
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type CardVersion struct {
	ID        uint32    `db:"id" json:"id"`
	CardID    uint32    `db:"card_id" json:"card_id"`
	Doc       string    `db:"doc" json:"doc"`
	Note      string    `db:"note" json:"note"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type AssetRecord struct {
	ID        uint32    `db:"id" json:"id"`
	CardID    uint32    `db:"card_id" json:"card_id"`
	Type      string    `db:"type" json:"type"`
	Name      string    `db:"name" json:"name"`
	Path      string    `db:"path" json:"path"` // file path under the assets dir
	Mimetype  string    `db:"mimetype" json:"mimetype"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ResolvedAsset pairs a descriptor with the bytes behind it.
type ResolvedAsset struct {
	Descriptor AssetDescriptor
	Bytes      []byte
	Mimetype   string
	Size       int64
}

// DocChunk is one indexed slice of a reference document.
type DocChunk struct {
	ID        uint32    `db:"id" json:"id"`
	FileName  string    `db:"file_name" json:"file_name"`
	Seq       int       `db:"seq" json:"seq"`
	Text      string    `db:"text" json:"text"`
	Embedding []byte    `db:"embedding" json:"-"` // little-endian float32 blob, empty until embedded
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
