// Package asseturi classifies and transcodes the asset reference schemes
// character cards use: storage identifiers, archive-relative embeded://
// URIs (the misspelling is load-bearing interop with the CHARX ecosystem),
// data: URIs and plain remote URLs.
package asseturi

import (
	"fmt"
	"regexp"
	"strings"
)

type Scheme string

const (
	SchemeCCDefault Scheme = "ccdefault"
	SchemeEmbeded   Scheme = "embeded"
	SchemeHTTPS     Scheme = "https"
	SchemeHTTP      Scheme = "http"
	SchemeData      Scheme = "data"
	SchemeFile      Scheme = "file"
	SchemeInternal  Scheme = "internal"
	SchemeUnknown   Scheme = "unknown"
)

// Parsed is the classification result. Only the fields relevant to the
// scheme are set.
type Parsed struct {
	Scheme   Scheme
	Path     string
	URL      string
	Data     string
	MimeType string
	Encoding string
}

var (
	dataURIRe  = regexp.MustCompile(`^data:([^;,]*)(;base64)?,(.*)$`)
	internalRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
)

// Parse is total: anything unrecognized comes back as SchemeUnknown, never
// an error. Prefixes are checked in a fixed precedence order.
func Parse(uri string) Parsed {
	uri = strings.TrimSpace(uri)
	switch {
	case strings.HasPrefix(uri, "ccdefault:"):
		return Parsed{Scheme: SchemeCCDefault}
	case strings.HasPrefix(uri, "embeded://"):
		return Parsed{Scheme: SchemeEmbeded, Path: strings.TrimPrefix(uri, "embeded://")}
	case strings.HasPrefix(uri, "https://"):
		return Parsed{Scheme: SchemeHTTPS, URL: uri}
	case strings.HasPrefix(uri, "http://"):
		return Parsed{Scheme: SchemeHTTP, URL: uri}
	case strings.HasPrefix(uri, "data:"):
		m := dataURIRe.FindStringSubmatch(uri)
		if m == nil {
			return Parsed{Scheme: SchemeUnknown}
		}
		mime := m[1]
		if mime == "" {
			mime = "text/plain"
		}
		enc := ""
		if m[2] != "" {
			enc = "base64"
		}
		return Parsed{Scheme: SchemeData, MimeType: mime, Encoding: enc, Data: m[3]}
	case strings.HasPrefix(uri, "file://"):
		return Parsed{Scheme: SchemeFile, Path: strings.TrimPrefix(uri, "file://")}
	case internalRe.MatchString(uri):
		return Parsed{Scheme: SchemeInternal, Path: uri}
	default:
		return Parsed{Scheme: SchemeUnknown}
	}
}

// Opts are the opt-in switches for schemes that dereference outside the
// card's own storage. Imported cards carry attacker-controlled URIs, so
// http and file stay off unless the operator enables them.
type Opts struct {
	AllowHTTP bool
	AllowFile bool
}

func IsSafe(uri string, opts Opts) bool {
	switch Parse(uri).Scheme {
	case SchemeEmbeded, SchemeCCDefault, SchemeInternal, SchemeData, SchemeHTTPS:
		return true
	case SchemeHTTP:
		return opts.AllowHTTP
	case SchemeFile:
		return opts.AllowFile
	default:
		return false
	}
}

var assetSubdirs = map[string]bool{
	"icon":       true,
	"background": true,
	"emotion":    true,
	"user_icon":  true,
}

// InternalToEmbed converts a storage identifier into the archive-relative
// URI the CHARX builder writes into card.json. The storage id itself does
// not survive into the archive; identity there is (type, kind, index).
func InternalToEmbed(assetID, assetType, ext string, index int) string {
	subdir := assetType
	if !assetSubdirs[subdir] {
		subdir = "other"
	}
	return fmt.Sprintf("embeded://assets/%s/%s/%d.%s", subdir, MediaKind(ext), index, ext)
}
