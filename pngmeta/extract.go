package pngmeta

import (
	"encoding/base64"
	"encoding/json"

	"cardsmith/models"
)

// cardKeys is the tEXt keyword search order: v3-era keys first, then v2,
// then legacy spellings other tools have shipped over the years. The
// mixed-case entries are interop requirements, not typos.
var cardKeys = []string{
	"ccv3",
	"chara_card_v3",
	"chara",
	"ccv2",
	"character",
	"charactercard",
	"card",
	"CharacterCard",
	"Chara",
}

// decodeStrategies are tried in order against a candidate chunk text until
// one yields JSON. Most writers base64-encode the card; a few store it raw.
var decodeStrategies = []func(string) (json.RawMessage, bool){
	decodeRawJSON,
	decodeBase64JSON,
}

func decodeRawJSON(text string) (json.RawMessage, bool) {
	if !json.Valid([]byte(text)) {
		return nil, false
	}
	return json.RawMessage(text), true
}

func decodeBase64JSON(text string) (json.RawMessage, bool) {
	data, err := base64.StdEncoding.DecodeString(text)
	if err != nil {
		return nil, false
	}
	if !json.Valid(data) {
		return nil, false
	}
	return json.RawMessage(data), true
}

// ExtractCard pulls an embedded character card out of a PNG buffer.
// A PNG without card data is a normal outcome: (nil, false, nil).
// Errors are reserved for malformed containers.
func ExtractCard(buf []byte) (*models.CardFile, bool, error) {
	texts, err := TextChunks(buf)
	if err != nil {
		return nil, false, err
	}
	for _, key := range cardKeys {
		text, ok := texts[key]
		if !ok {
			continue
		}
		for _, decode := range decodeStrategies {
			raw, ok := decode(text)
			if !ok {
				continue
			}
			if card := models.ParseCard(raw); card != nil {
				return card, true, nil
			}
			break // decoded fine but not a card; next key
		}
	}
	return nil, false, nil
}
