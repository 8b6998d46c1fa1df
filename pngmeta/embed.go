package pngmeta

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"hash/crc32"

	"cardsmith/models"
)

// Keywords the injector writes, matching the head of the extractor's search
// order so cards round-trip through this codec.
const (
	KeywordV3 = "ccv3"
	KeywordV2 = "chara"
)

// findIEND locates the offset of the IEND chunk's length field by scanning
// backward. IEND must be the terminal chunk, so the tail is the cheap place
// to look; no full parse needed.
func findIEND(buf []byte) (int, bool) {
	for offset := len(buf) - chunkFraming; offset >= len(header); offset-- {
		if string(buf[offset+4:offset+8]) == iendChunkType {
			return offset, true
		}
	}
	return 0, false
}

// buildTextChunk frames keyword\x00text as a tEXt chunk with its CRC.
func buildTextChunk(keyword, text string) []byte {
	data := make([]byte, 0, len(keyword)+1+len(text))
	data = append(data, keyword...)
	data = append(data, 0)
	data = append(data, text...)
	crc := crc32.NewIEEE()
	crc.Write([]byte(textChunkType))
	crc.Write(data)
	chunk := make([]byte, 0, len(data)+chunkFraming)
	chunk = binary.BigEndian.AppendUint32(chunk, uint32(len(data)))
	chunk = append(chunk, textChunkType...)
	chunk = append(chunk, data...)
	chunk = binary.BigEndian.AppendUint32(chunk, crc.Sum32())
	return chunk
}

// EmbedText splices a new tEXt chunk immediately before the IEND chunk and
// returns a fresh buffer; the input is never touched.
func EmbedText(png []byte, keyword, text string) ([]byte, error) {
	if len(png) < len(header)+chunkFraming || string(png[:len(header)]) != header {
		return nil, ErrNotPNG
	}
	iend, ok := findIEND(png)
	if !ok {
		return nil, ErrNoIEND
	}
	chunk := buildTextChunk(keyword, text)
	out := make([]byte, 0, len(png)+len(chunk))
	out = append(out, png[:iend]...)
	out = append(out, chunk...)
	out = append(out, png[iend:]...)
	return out, nil
}

// EmbedCard writes the card's JSON into the PNG under the keyword matching
// its spec generation. JSON is minified to keep the chunk small.
func EmbedCard(png []byte, card *models.CardFile) ([]byte, error) {
	doc, err := card.CardJSON()
	if err != nil {
		return nil, err
	}
	var minified bytes.Buffer
	if err := json.Compact(&minified, doc); err != nil {
		return nil, fmt.Errorf("bad card json: %w", err)
	}
	keyword := KeywordV2
	if card.Spec == models.SpecV3 {
		keyword = KeywordV3
	}
	return EmbedText(png, keyword, minified.String())
}
