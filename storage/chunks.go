package storage

import (
	"encoding/binary"
	"math"

	"cardsmith/models"
)

type ChunkSpace interface {
	WriteChunk(c *models.DocChunk) error
	ListChunkFiles() ([]string, error)
	ChunksByFile(fileName string) ([]models.DocChunk, error)
	RemoveChunksByFile(fileName string) error
}

// SerializeVector converts []float32 to the binary blob stored next to a
// chunk once the embedder has run.
func SerializeVector(vec []float32) []byte {
	buf := make([]byte, len(vec)*4)
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

func DeserializeVector(data []byte) []float32 {
	count := len(data) / 4
	vec := make([]float32, count)
	for i := 0; i < count; i++ {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return vec
}

func (p ProviderSQL) WriteChunk(c *models.DocChunk) error {
	query := `
        INSERT INTO chunks (file_name, seq, text, embedding)
        VALUES (:file_name, :seq, :text, :embedding);`
	_, err := p.db.NamedExec(query, c)
	return err
}

func (p ProviderSQL) ListChunkFiles() ([]string, error) {
	var files []string
	err := p.db.Select(&files, "SELECT DISTINCT file_name FROM chunks;")
	return files, err
}

func (p ProviderSQL) ChunksByFile(fileName string) ([]models.DocChunk, error) {
	resp := []models.DocChunk{}
	err := p.db.Select(&resp, "SELECT * FROM chunks WHERE file_name=$1 ORDER BY seq;", fileName)
	return resp, err
}

func (p ProviderSQL) RemoveChunksByFile(fileName string) error {
	_, err := p.db.Exec("DELETE FROM chunks WHERE file_name = $1;", fileName)
	return err
}
