package models

import "encoding/json"

type Spec string

const (
	SpecV2   Spec = "v2"
	SpecV3   Spec = "v3"
	SpecNone Spec = ""
)

const (
	SpecTagV3 = "chara_card_v3"
	SpecTagV2 = "chara_card_v2"
)

// specProbe covers just enough of both generations to classify a document.
type specProbe struct {
	Spec string `json:"spec"`
	Data struct {
		Name string `json:"name"`
	} `json:"data"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Personality string `json:"personality"`
	Scenario    string `json:"scenario"`
}

// DetectSpec classifies raw card JSON. Heuristics run in a fixed order that
// other tools in the ecosystem depend on; do not reorder:
//  1. spec == "chara_card_v3" with data.name present -> v3
//  2. spec == "chara_card_v2" with data.name present -> v2
//  3. top-level name plus any of description/personality/scenario -> legacy v2
func DetectSpec(raw json.RawMessage) Spec {
	var p specProbe
	if err := json.Unmarshal(raw, &p); err != nil {
		return SpecNone
	}
	if p.Spec == SpecTagV3 && p.Data.Name != "" {
		return SpecV3
	}
	if p.Spec == SpecTagV2 && p.Data.Name != "" {
		return SpecV2
	}
	if p.Name != "" && (p.Description != "" || p.Personality != "" || p.Scenario != "") {
		return SpecV2
	}
	return SpecNone
}

// ParseCard decodes raw JSON into a CardFile, keeping the raw bytes for
// lossless round-trips. Returns nil when the document is not a card.
func ParseCard(raw json.RawMessage) *CardFile {
	spec := DetectSpec(raw)
	switch spec {
	case SpecV3:
		v3 := &CharCardV3{}
		if err := json.Unmarshal(raw, v3); err != nil {
			return nil
		}
		return &CardFile{Spec: SpecV3, Raw: raw, V3: v3}
	case SpecV2:
		var probe specProbe
		if err := json.Unmarshal(raw, &probe); err != nil {
			return nil
		}
		if probe.Spec == SpecTagV2 {
			wrap := &Spec2Wrapper{}
			if err := json.Unmarshal(raw, wrap); err != nil {
				return nil
			}
			return &CardFile{Spec: SpecV2, Raw: raw, V2: &wrap.Data}
		}
		v2 := &CharCardV2{}
		if err := json.Unmarshal(raw, v2); err != nil {
			return nil
		}
		return &CardFile{Spec: SpecV2, Raw: raw, V2: v2}
	default:
		return nil
	}
}
