package models

import (
	"encoding/json"
	"strings"
)

// https://github.com/malfoyslastname/character-card-spec-v2/blob/main/spec_v2.md
// v2 keeps every field top-level; v3 nests the same shape under "data".
type CharCardV2 struct {
	Name               string                     `json:"name"`
	Description        string                     `json:"description"`
	Personality        string                     `json:"personality"`
	Scenario           string                     `json:"scenario"`
	FirstMes           string                     `json:"first_mes"`
	MesExample         string                     `json:"mes_example"`
	CreatorNotes       string                     `json:"creator_notes,omitempty"`
	SystemPrompt       string                     `json:"system_prompt,omitempty"`
	PostHistoryInstr   string                     `json:"post_history_instructions,omitempty"`
	AlternateGreetings []string                   `json:"alternate_greetings,omitempty"`
	Tags               []string                   `json:"tags,omitempty"`
	Creator            string                     `json:"creator,omitempty"`
	CharacterVersion   string                     `json:"character_version,omitempty"`
	Spec               string                     `json:"spec,omitempty"`
	SpecVersion        string                     `json:"spec_version,omitempty"`
	Extensions         map[string]json.RawMessage `json:"extensions,omitempty"`
}

// Spec2Wrapper is the "chara_card_v2" envelope some exporters use:
// the v2 fields nested under "data" like v3 does.
type Spec2Wrapper struct {
	Spec        string     `json:"spec"`
	SpecVersion string     `json:"spec_version"`
	Data        CharCardV2 `json:"data"`
}

type AssetType string

const (
	AssetIcon       AssetType = "icon"
	AssetBackground AssetType = "background"
	AssetEmotion    AssetType = "emotion"
	AssetUserIcon   AssetType = "user_icon"
	AssetOther      AssetType = "other"
)

// AssetDescriptor is one entry of a card's asset list. The codec only ever
// rewrites URI; everything else belongs to the editor.
type AssetDescriptor struct {
	Type   AssetType `json:"type"`
	Name   string    `json:"name"`
	URI    string    `json:"uri"`
	Ext    string    `json:"ext,omitempty"`
	IsMain bool      `json:"ismain,omitempty"`
}

type LorebookEntry struct {
	Keys           []string `json:"keys"`
	Content        string   `json:"content"`
	Enabled        bool     `json:"enabled"`
	InsertionOrder int      `json:"insertion_order"`
	CaseSensitive  bool     `json:"case_sensitive,omitempty"`
	Name           string   `json:"name,omitempty"`
	Constant       bool     `json:"constant,omitempty"`
}

type Lorebook struct {
	Name    string          `json:"name,omitempty"`
	Entries []LorebookEntry `json:"entries"`
}

type CharCardData struct {
	Name               string                     `json:"name"`
	Description        string                     `json:"description"`
	Personality        string                     `json:"personality"`
	Scenario           string                     `json:"scenario"`
	FirstMes           string                     `json:"first_mes"`
	MesExample         string                     `json:"mes_example"`
	CreatorNotes       string                     `json:"creator_notes,omitempty"`
	SystemPrompt       string                     `json:"system_prompt,omitempty"`
	PostHistoryInstr   string                     `json:"post_history_instructions,omitempty"`
	AlternateGreetings []string                   `json:"alternate_greetings,omitempty"`
	GroupOnlyGreetings []string                   `json:"group_only_greetings,omitempty"`
	Nickname           string                     `json:"nickname,omitempty"`
	Tags               []string                   `json:"tags,omitempty"`
	Creator            string                     `json:"creator,omitempty"`
	CharacterVersion   string                     `json:"character_version,omitempty"`
	Assets             []AssetDescriptor          `json:"assets,omitempty"`
	CharacterBook      *Lorebook                  `json:"character_book,omitempty"`
	Extensions         map[string]json.RawMessage `json:"extensions,omitempty"`
}

type CharCardV3 struct {
	Spec        string       `json:"spec"`
	SpecVersion string       `json:"spec_version"`
	Data        CharCardData `json:"data"`
}

// CardFile is a decoded card document of either spec generation. Raw holds
// the exact JSON it was decoded from, so PNG round-trips keep fields the
// typed structs do not model.
type CardFile struct {
	Spec Spec
	Raw  json.RawMessage
	V2   *CharCardV2
	V3   *CharCardV3
}

func (c *CardFile) Name() string {
	switch {
	case c.V3 != nil:
		return c.V3.Data.Name
	case c.V2 != nil:
		return c.V2.Name
	}
	return ""
}

func (c *CardFile) Assets() []AssetDescriptor {
	if c.V3 != nil {
		return c.V3.Data.Assets
	}
	return nil
}

// CardJSON returns the document bytes to persist or embed: the original raw
// JSON when the card came from a container, else a fresh marshal.
func (c *CardFile) CardJSON() ([]byte, error) {
	if len(c.Raw) > 0 {
		return c.Raw, nil
	}
	if c.V3 != nil {
		return json.Marshal(c.V3)
	}
	return json.Marshal(c.V2)
}

func replaceMacros(s, charName, userName string) string {
	s = strings.ReplaceAll(s, "{{char}}", charName)
	return strings.ReplaceAll(s, "{{user}}", userName)
}

// SimpleCard is the macro-expanded view consumers prompt with.
type SimpleCard struct {
	SysPrompt string `json:"sys_prompt"`
	FirstMsg  string `json:"first_msg"`
	Role      string `json:"role"`
}

func (d *CharCardData) Simplify(userName string) *SimpleCard {
	return &SimpleCard{
		SysPrompt: replaceMacros(d.Description, d.Name, userName),
		FirstMsg:  replaceMacros(d.FirstMes, d.Name, userName),
		Role:      d.Name,
	}
}

func (c *CharCardV2) Simplify(userName string) *SimpleCard {
	return &SimpleCard{
		SysPrompt: replaceMacros(c.Description, c.Name, userName),
		FirstMsg:  replaceMacros(c.FirstMes, c.Name, userName),
		Role:      c.Name,
	}
}
