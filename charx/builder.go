// Package charx packages a v3 character card and its binary assets into the
// ZIP-based CHARX interchange format: card.json at the archive root, asset
// bytes under assets/{type}/{kind}/{index}.{ext}, referenced from the card
// by embeded:// URIs.
package charx

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"cardsmith/asseturi"
	"cardsmith/models"
)

const cardEntryName = "card.json"

var ErrNotV3 = errors.New("charx requires a v3 card")

type Builder struct {
	logger *slog.Logger
}

func NewBuilder(l *slog.Logger) *Builder {
	return &Builder{logger: l}
}

// BuildResult reports what actually went into the archive. AssetCount can
// be lower than the input list when storage could not back every asset.
type BuildResult struct {
	Archive    []byte
	AssetCount int
	TotalSize  int64
	Skipped    []string
}

type packedAsset struct {
	path  string
	bytes []byte
}

// extFromMime picks the file extension from a mimetype's subtype segment,
// so image/png lands as .png regardless of what the storage row claimed.
func extFromMime(mime string) string {
	_, sub, ok := strings.Cut(mime, "/")
	if !ok || sub == "" {
		return "unknown"
	}
	if ext := asseturi.MimeToExt(mime); ext != "bin" {
		return ext
	}
	return sub
}

// Build assembles the archive. Assets that cannot be resolved are skipped
// and logged, never fatal: a partial archive still loads everywhere.
func (b *Builder) Build(card *models.CardFile, resolved []models.ResolvedAsset) (*BuildResult, error) {
	if card.V3 == nil {
		return nil, ErrNotV3
	}
	// work on a copy; the caller's document must stay untouched
	doc := &models.CharCardV3{}
	origJSON, err := json.Marshal(card.V3)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(origJSON, doc); err != nil {
		return nil, err
	}

	byKey := make(map[string]*models.ResolvedAsset, len(resolved))
	for i := range resolved {
		d := resolved[i].Descriptor
		byKey[string(d.Type)+"\x00"+d.Name] = &resolved[i]
	}

	res := &BuildResult{}
	var packed []packedAsset
	typeOrder := map[models.AssetType]int{}
	for i := range doc.Data.Assets {
		a := &doc.Data.Assets[i]
		index := typeOrder[a.Type]
		typeOrder[a.Type]++
		parsed := asseturi.Parse(a.URI)
		if parsed.Scheme != asseturi.SchemeInternal {
			// remote, ccdefault and data URIs travel as-is
			continue
		}
		ra, ok := byKey[string(a.Type)+"\x00"+a.Name]
		if !ok || len(ra.Bytes) == 0 {
			res.Skipped = append(res.Skipped, fmt.Sprintf("%s/%s", a.Type, a.Name))
			b.logger.Warn("charx: asset not resolvable, skipping",
				"type", a.Type, "name", a.Name, "uri", a.URI)
			continue
		}
		ext := extFromMime(ra.Mimetype)
		a.URI = asseturi.InternalToEmbed(parsed.Path, string(a.Type), ext, index)
		packed = append(packed, packedAsset{
			path:  strings.TrimPrefix(a.URI, "embeded://"),
			bytes: ra.Bytes,
		})
	}

	cardJSON, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create(cardEntryName)
	if err != nil {
		return nil, err
	}
	n, err := w.Write(cardJSON)
	if err != nil {
		return nil, err
	}
	res.TotalSize += int64(n)
	for _, p := range packed {
		w, err := zw.Create(p.path)
		if err != nil {
			return nil, err
		}
		n, err := w.Write(p.bytes)
		if err != nil {
			return nil, err
		}
		res.TotalSize += int64(n)
		res.AssetCount++
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	res.Archive = buf.Bytes()
	b.logger.Info("charx: built archive",
		"assets", res.AssetCount, "skipped", len(res.Skipped), "bytes", len(res.Archive))
	return res, nil
}
