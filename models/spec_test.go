package models

import (
	"encoding/json"
	"fmt"
	"testing"
)

func TestDetectSpec(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want Spec
	}{
		{
			name: "explicit v3",
			raw:  `{"spec":"chara_card_v3","data":{"name":"A"}}`,
			want: SpecV3,
		},
		{
			name: "explicit v2 wrapper",
			raw:  `{"spec":"chara_card_v2","data":{"name":"A"}}`,
			want: SpecV2,
		},
		{
			name: "legacy v2 via description",
			raw:  `{"name":"A","description":"desc"}`,
			want: SpecV2,
		},
		{
			name: "legacy v2 via scenario",
			raw:  `{"name":"A","scenario":"somewhere"}`,
			want: SpecV2,
		},
		{
			name: "v3 tag without data.name falls through",
			raw:  `{"spec":"chara_card_v3","data":{}}`,
			want: SpecNone,
		},
		{
			name: "name alone is not a card",
			raw:  `{"name":"A"}`,
			want: SpecNone,
		},
		{
			name: "not a card at all",
			raw:  `{"foo":"bar"}`,
			want: SpecNone,
		},
		{
			name: "invalid json",
			raw:  `{"name":`,
			want: SpecNone,
		},
	}
	for i, tc := range cases {
		t.Run(fmt.Sprintf("test_%d_%s", i, tc.name), func(t *testing.T) {
			if got := DetectSpec(json.RawMessage(tc.raw)); got != tc.want {
				t.Errorf("DetectSpec() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestParseCardShapes(t *testing.T) {
	v3 := ParseCard(json.RawMessage(
		`{"spec":"chara_card_v3","spec_version":"3.0","data":{"name":"A","description":"d"}}`))
	if v3 == nil || v3.V3 == nil || v3.V3.Data.Name != "A" {
		t.Fatalf("v3 parse: %+v", v3)
	}
	wrapped := ParseCard(json.RawMessage(
		`{"spec":"chara_card_v2","data":{"name":"B","description":"d"}}`))
	if wrapped == nil || wrapped.V2 == nil || wrapped.V2.Name != "B" {
		t.Fatalf("wrapped v2 parse: %+v", wrapped)
	}
	legacy := ParseCard(json.RawMessage(`{"name":"C","personality":"p"}`))
	if legacy == nil || legacy.V2 == nil || legacy.V2.Name != "C" {
		t.Fatalf("legacy v2 parse: %+v", legacy)
	}
	if legacy.Spec != SpecV2 {
		t.Errorf("legacy spec = %v", legacy.Spec)
	}
	if got := ParseCard(json.RawMessage(`{"foo":1}`)); got != nil {
		t.Errorf("non-card parsed: %+v", got)
	}
}

func TestSimplifyMacros(t *testing.T) {
	d := &CharCardData{
		Name:        "Morgan",
		Description: "{{char}} studies with {{user}}.",
		FirstMes:    "Hello {{user}}, I am {{char}}.",
	}
	s := d.Simplify("Adam")
	if s.SysPrompt != "Morgan studies with Adam." {
		t.Errorf("SysPrompt = %q", s.SysPrompt)
	}
	if s.FirstMsg != "Hello Adam, I am Morgan." {
		t.Errorf("FirstMsg = %q", s.FirstMsg)
	}
	if s.Role != "Morgan" {
		t.Errorf("Role = %q", s.Role)
	}
}
