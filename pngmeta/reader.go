package pngmeta

import (
	"bytes"
	"encoding/binary"
	"errors"

	"golang.org/x/text/encoding/charmap"
)

const (
	header        = "\x89PNG\r\n\x1a\n"
	textChunkType = "tEXt"
	iendChunkType = "IEND"
	// length + type before the data, crc after it
	chunkFraming = 12
)

var (
	ErrNotPNG       = errors.New("not png")
	ErrTruncated    = errors.New("truncated chunk framing")
	ErrChunkOverrun = errors.New("chunk overruns buffer")
	ErrNoIEND       = errors.New("png has no IEND chunk")
)

// Chunk is one decoded PNG chunk. Data aliases the input buffer; callers
// must not write through it.
type Chunk struct {
	Type   string
	Data   []byte
	Length uint32
	CRC    uint32
}

// ReadChunks walks the chunk stream of a PNG buffer up to and including
// IEND. Bytes after IEND are ignored; a missing IEND yields whatever chunks
// fit before the buffer ran out. Chunk CRCs are carried but not re-checked:
// extraction must tolerate writers that got them wrong.
func ReadChunks(buf []byte) ([]Chunk, error) {
	if len(buf) < len(header) || string(buf[:len(header)]) != header {
		return nil, ErrNotPNG
	}
	var chunks []Chunk
	offset := len(header)
	for offset < len(buf) {
		if len(buf)-offset < chunkFraming {
			return nil, ErrTruncated
		}
		length := binary.BigEndian.Uint32(buf[offset:])
		typ := string(buf[offset+4 : offset+8])
		dataStart := offset + 8
		if uint64(length) > uint64(len(buf)-dataStart-4) {
			return nil, ErrChunkOverrun
		}
		dataEnd := dataStart + int(length)
		chunks = append(chunks, Chunk{
			Type:   typ,
			Data:   buf[dataStart:dataEnd],
			Length: length,
			CRC:    binary.BigEndian.Uint32(buf[dataEnd:]),
		})
		if typ == iendChunkType {
			break
		}
		offset = dataEnd + 4
	}
	return chunks, nil
}

// TextChunks collects the (keyword, text) pairs of every tEXt chunk in the
// buffer. Keywords are Latin-1 per the PNG spec; the text payloads here are
// card JSON, which the ecosystem writes as UTF-8.
func TextChunks(buf []byte) (map[string]string, error) {
	chunks, err := ReadChunks(buf)
	if err != nil {
		return nil, err
	}
	texts := make(map[string]string)
	for _, c := range chunks {
		if c.Type != textChunkType {
			continue
		}
		sep := bytes.IndexByte(c.Data, 0)
		if sep < 0 {
			continue
		}
		keyword, err := charmap.ISO8859_1.NewDecoder().Bytes(c.Data[:sep])
		if err != nil {
			continue
		}
		texts[string(keyword)] = string(c.Data[sep+1:])
	}
	return texts, nil
}
