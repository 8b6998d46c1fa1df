package asseturi

import "strings"

var extToMime = map[string]string{
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"webp": "image/webp",
	"gif":  "image/gif",
	"avif": "image/avif",
	"svg":  "image/svg+xml",
	"bmp":  "image/bmp",
	"mp3":  "audio/mpeg",
	"wav":  "audio/wav",
	"ogg":  "audio/ogg",
	"mp4":  "video/mp4",
	"webm": "video/webm",
}

var mimeToExt = map[string]string{
	"image/png":     "png",
	"image/jpeg":    "jpg",
	"image/webp":    "webp",
	"image/gif":     "gif",
	"image/avif":    "avif",
	"image/svg+xml": "svg",
	"image/bmp":     "bmp",
	"audio/mpeg":    "mp3",
	"audio/wav":     "wav",
	"audio/ogg":     "ogg",
	"video/mp4":     "mp4",
	"video/webm":    "webm",
}

// ExtToMime maps a file extension (without dot) to its mimetype,
// falling back to application/octet-stream.
func ExtToMime(ext string) string {
	if m, ok := extToMime[strings.ToLower(ext)]; ok {
		return m
	}
	return "application/octet-stream"
}

// MimeToExt is the reverse lookup, falling back to "bin".
func MimeToExt(mime string) string {
	if e, ok := mimeToExt[strings.ToLower(mime)]; ok {
		return e
	}
	return "bin"
}

var extToKind = map[string]string{
	"png": "image", "jpg": "image", "jpeg": "image", "webp": "image",
	"gif": "image", "avif": "image", "svg": "image", "bmp": "image",
	"mp3": "audio", "wav": "audio", "ogg": "audio",
	"mp4": "video", "webm": "video",
}

// MediaKind buckets an extension into image/audio/video, else "other".
func MediaKind(ext string) string {
	if k, ok := extToKind[strings.ToLower(ext)]; ok {
		return k
	}
	return "other"
}
