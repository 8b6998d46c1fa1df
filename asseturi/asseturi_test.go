package asseturi

import (
	"fmt"
	"testing"
)

func TestParseClassification(t *testing.T) {
	cases := []struct {
		uri  string
		want Parsed
	}{
		{"ccdefault:", Parsed{Scheme: SchemeCCDefault}},
		{"embeded://assets/icon/png/0.png",
			Parsed{Scheme: SchemeEmbeded, Path: "assets/icon/png/0.png"}},
		{"https://example.com/a.png",
			Parsed{Scheme: SchemeHTTPS, URL: "https://example.com/a.png"}},
		{"http://example.com/a.png",
			Parsed{Scheme: SchemeHTTP, URL: "http://example.com/a.png"}},
		{"data:image/png;base64,AAA=",
			Parsed{Scheme: SchemeData, MimeType: "image/png", Encoding: "base64", Data: "AAA="}},
		{"data:,hello",
			Parsed{Scheme: SchemeData, MimeType: "text/plain", Data: "hello"}},
		{"file:///tmp/x.png", Parsed{Scheme: SchemeFile, Path: "/tmp/x.png"}},
		{"asset_42-main", Parsed{Scheme: SchemeInternal, Path: "asset_42-main"}},
		{"not-a-scheme!!", Parsed{Scheme: SchemeUnknown}},
		{"  embeded://x  ", Parsed{Scheme: SchemeEmbeded, Path: "x"}},
	}
	for i, tc := range cases {
		t.Run(fmt.Sprintf("test_%d", i), func(t *testing.T) {
			if got := Parse(tc.uri); got != tc.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tc.uri, got, tc.want)
			}
		})
	}
}

func TestIsSafe(t *testing.T) {
	cases := []struct {
		uri  string
		opts Opts
		want bool
	}{
		{"embeded://assets/icon/png/0.png", Opts{}, true},
		{"ccdefault:", Opts{}, true},
		{"myasset", Opts{}, true},
		{"data:image/png;base64,AAA=", Opts{}, true},
		{"https://example.com/x", Opts{}, true},
		{"http://example.com/x", Opts{}, false},
		{"http://example.com/x", Opts{AllowHTTP: true}, true},
		{"file:///etc/passwd", Opts{}, false},
		{"file:///tmp/ok.png", Opts{AllowFile: true}, true},
		{"not-a-scheme!!", Opts{AllowHTTP: true, AllowFile: true}, false},
	}
	for i, tc := range cases {
		t.Run(fmt.Sprintf("test_%d", i), func(t *testing.T) {
			if got := IsSafe(tc.uri, tc.opts); got != tc.want {
				t.Errorf("IsSafe(%q, %+v) = %v, want %v", tc.uri, tc.opts, got, tc.want)
			}
		})
	}
}

func TestInternalToEmbed(t *testing.T) {
	cases := []struct {
		typ, ext string
		index    int
		want     string
	}{
		{"icon", "png", 0, "embeded://assets/icon/image/0.png"},
		{"emotion", "webp", 3, "embeded://assets/emotion/image/3.webp"},
		{"background", "mp4", 1, "embeded://assets/background/video/1.mp4"},
		{"soundtrack", "mp3", 0, "embeded://assets/other/audio/0.mp3"},
		{"other", "xyz", 2, "embeded://assets/other/other/2.xyz"},
	}
	for i, tc := range cases {
		t.Run(fmt.Sprintf("test_%d", i), func(t *testing.T) {
			got := InternalToEmbed("someid", tc.typ, tc.ext, tc.index)
			if got != tc.want {
				t.Errorf("InternalToEmbed() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestMimeTables(t *testing.T) {
	if got := ExtToMime("PNG"); got != "image/png" {
		t.Errorf("ExtToMime(PNG) = %q", got)
	}
	if got := ExtToMime("flac"); got != "application/octet-stream" {
		t.Errorf("ExtToMime fallback = %q", got)
	}
	if got := MimeToExt("image/jpeg"); got != "jpg" {
		t.Errorf("MimeToExt(image/jpeg) = %q", got)
	}
	if got := MimeToExt("application/x-nonsense"); got != "bin" {
		t.Errorf("MimeToExt fallback = %q", got)
	}
	if got := MediaKind("ogg"); got != "audio" {
		t.Errorf("MediaKind(ogg) = %q", got)
	}
	if got := MediaKind("tar"); got != "other" {
		t.Errorf("MediaKind fallback = %q", got)
	}
}
