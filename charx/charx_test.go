package charx

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"testing"

	"cardsmith/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testCard(t *testing.T) *models.CardFile {
	t.Helper()
	raw := `{
		"spec": "chara_card_v3",
		"spec_version": "3.0",
		"data": {
			"name": "Morgan",
			"description": "A wandering scholar.",
			"first_mes": "Oh, a visitor!",
			"assets": [
				{"type": "icon", "name": "main", "uri": "morganicon", "ismain": true},
				{"type": "emotion", "name": "joy", "uri": "morganjoy"},
				{"type": "emotion", "name": "rage", "uri": "morganrage"},
				{"type": "background", "name": "archive", "uri": "https://img.example/archive.png"}
			]
		}
	}`
	card := models.ParseCard(json.RawMessage(raw))
	if card == nil {
		t.Fatal("fixture card did not parse")
	}
	return card
}

func resolvedFixture() []models.ResolvedAsset {
	mk := func(typ models.AssetType, name, mime string, data []byte) models.ResolvedAsset {
		return models.ResolvedAsset{
			Descriptor: models.AssetDescriptor{Type: typ, Name: name},
			Bytes:      data,
			Mimetype:   mime,
			Size:       int64(len(data)),
		}
	}
	return []models.ResolvedAsset{
		mk(models.AssetIcon, "main", "image/png", []byte("png-bytes-main")),
		mk(models.AssetEmotion, "joy", "image/webp", []byte("webp-bytes-joy")),
		mk(models.AssetEmotion, "rage", "image/webp", []byte("webp-bytes-rage")),
	}
}

func entryNames(t *testing.T, archive []byte) []string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		t.Fatalf("output is not a zip: %v", err)
	}
	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	return names
}

func readEntry(t *testing.T, archive []byte, name string) []byte {
	t.Helper()
	data, err := ExtractAsset(archive, name)
	if err != nil {
		t.Fatalf("entry %s: %v", name, err)
	}
	return data
}

func TestBuildLayout(t *testing.T) {
	b := NewBuilder(testLogger())
	res, err := b.Build(testCard(t), resolvedFixture())
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if res.AssetCount != 3 {
		t.Errorf("AssetCount = %d, want 3", res.AssetCount)
	}
	if len(res.Skipped) != 0 {
		t.Errorf("Skipped = %v, want none", res.Skipped)
	}
	want := []string{
		"card.json",
		"assets/icon/image/0.png",
		"assets/emotion/image/0.webp",
		"assets/emotion/image/1.webp",
	}
	got := entryNames(t, res.Archive)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("entries = %v, want %v", got, want)
	}
	// the card document inside must reference the packed paths
	doc := readEntry(t, res.Archive, "card.json")
	card := models.ParseCard(doc)
	if card == nil || card.V3 == nil {
		t.Fatal("card.json did not parse as v3")
	}
	assets := card.V3.Data.Assets
	if assets[0].URI != "embeded://assets/icon/image/0.png" {
		t.Errorf("icon uri = %q", assets[0].URI)
	}
	if assets[2].URI != "embeded://assets/emotion/image/1.webp" {
		t.Errorf("second emotion uri = %q", assets[2].URI)
	}
	// remote urls stay untouched
	if assets[3].URI != "https://img.example/archive.png" {
		t.Errorf("remote uri rewritten: %q", assets[3].URI)
	}
	if string(readEntry(t, res.Archive, "assets/emotion/image/1.webp")) != "webp-bytes-rage" {
		t.Error("asset bytes mismatch")
	}
}

func TestBuildDoesNotMutateCard(t *testing.T) {
	card := testCard(t)
	before := card.V3.Data.Assets[0].URI
	b := NewBuilder(testLogger())
	if _, err := b.Build(card, resolvedFixture()); err != nil {
		t.Fatal(err)
	}
	if card.V3.Data.Assets[0].URI != before {
		t.Error("builder mutated the caller's card document")
	}
}

func TestBuildDeterminism(t *testing.T) {
	b := NewBuilder(testLogger())
	card := testCard(t)
	resolved := resolvedFixture()
	res1, err := b.Build(card, resolved)
	if err != nil {
		t.Fatal(err)
	}
	res2, err := b.Build(card, resolved)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(entryNames(t, res1.Archive), entryNames(t, res2.Archive)) {
		t.Error("entry sets differ between identical builds")
	}
	if !bytes.Equal(readEntry(t, res1.Archive, "card.json"), readEntry(t, res2.Archive, "card.json")) {
		t.Error("card.json bytes differ between identical builds")
	}
}

func TestBuildPartial(t *testing.T) {
	b := NewBuilder(testLogger())
	// drop one of the three internal assets from storage
	resolved := resolvedFixture()[:2]
	res, err := b.Build(testCard(t), resolved)
	if err != nil {
		t.Fatalf("partial build must not fail: %v", err)
	}
	if res.AssetCount != 2 {
		t.Errorf("AssetCount = %d, want 2", res.AssetCount)
	}
	if len(res.Skipped) != 1 || res.Skipped[0] != "emotion/rage" {
		t.Errorf("Skipped = %v, want [emotion/rage]", res.Skipped)
	}
	// archive stays loadable
	if _, err := Extract(res.Archive); err != nil {
		t.Errorf("partial archive unreadable: %v", err)
	}
}

func TestBuildRequiresV3(t *testing.T) {
	v2 := models.ParseCard(json.RawMessage(
		`{"name":"Old","description":"v2 card","first_mes":"hello"}`))
	if v2 == nil {
		t.Fatal("v2 fixture did not parse")
	}
	b := NewBuilder(testLogger())
	if _, err := b.Build(v2, nil); err == nil {
		t.Error("Build accepted a v2 card")
	}
}

func TestExtractRoundTrip(t *testing.T) {
	b := NewBuilder(testLogger())
	res, err := b.Build(testCard(t), resolvedFixture())
	if err != nil {
		t.Fatal(err)
	}
	card, err := Extract(res.Archive)
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}
	if card.Name() != "Morgan" || card.Spec != models.SpecV3 {
		t.Errorf("extracted %q spec %v", card.Name(), card.Spec)
	}
}

func TestExtractRejectsCardlessArchive(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, _ := zw.Create("readme.txt")
	fmt.Fprint(w, "nothing here")
	zw.Close()
	if _, err := Extract(buf.Bytes()); err == nil {
		t.Error("Extract accepted an archive without card.json")
	}
}

func TestValidateBuild(t *testing.T) {
	card := testCard(t)
	if problems := ValidateBuild(card, resolvedFixture()); len(problems) != 0 {
		t.Errorf("valid card reported problems: %v", problems)
	}
	// strip the main flag: exactly-one-main-icon check must fire
	card.V3.Data.Assets[0].IsMain = false
	card.V3.Data.Assets[0].Name = "alt"
	problems := ValidateBuild(card, resolvedFixture())
	if len(problems) != 1 {
		t.Errorf("problems = %v, want one main-icon warning", problems)
	}
	v2 := models.ParseCard(json.RawMessage(
		`{"name":"Old","description":"v2","first_mes":"hi"}`))
	if problems := ValidateBuild(v2, nil); len(problems) != 1 {
		t.Errorf("v2 card problems = %v", problems)
	}
}
