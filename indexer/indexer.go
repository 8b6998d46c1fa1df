// Package indexer ingests reference documents (world lore, style guides)
// so the editor can surface relevant passages while a card is written:
// extract text, split into sentence chunks, embed, persist.
package indexer

import (
	"log/slog"
	"path"
	"strings"
	"sync"

	"cardsmith/config"
	"cardsmith/models"
	"cardsmith/storage"

	"github.com/neurosnap/sentences/english"
)

type Indexer struct {
	logger *slog.Logger
	store  storage.FullRepo
	cfg    *config.Config
	emb    Embedder
}

func New(l *slog.Logger, s storage.FullRepo, cfg *config.Config, emb Embedder) *Indexer {
	return &Indexer{
		logger: l,
		store:  s,
		cfg:    cfg,
		emb:    emb,
	}
}

func wordCounter(sentence string) int {
	return len(strings.Fields(sentence))
}

// chunkText groups sentences into paragraphs of roughly cfg.WordLimit words.
func (ix *Indexer) chunkText(text string) ([]string, error) {
	tokenizer, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		return nil, err
	}
	var (
		chunks []string
		par    strings.Builder
	)
	for _, s := range tokenizer.Tokenize(text) {
		par.WriteString(s.Text)
		if wordCounter(par.String()) > ix.cfg.WordLimit {
			chunks = append(chunks, par.String())
			par.Reset()
		}
	}
	if par.Len() > 0 {
		chunks = append(chunks, par.String())
	}
	return chunks, nil
}

type batch struct {
	seq   int // seq of the first chunk in the batch
	texts []string
}

// IndexFile extracts, chunks, embeds and stores one document. Embedding
// failures degrade to storing the chunk without a vector; text search still
// works on those rows.
func (ix *Indexer) IndexFile(fpath string) error {
	text, err := ExtractText(fpath)
	if err != nil {
		return err
	}
	chunks, err := ix.chunkText(text)
	if err != nil {
		return err
	}
	fileName := path.Base(fpath)
	ix.logger.Info("indexing document", "file", fileName, "chunks", len(chunks))
	// stale rows from a previous run would double up search results
	if err := ix.store.RemoveChunksByFile(fileName); err != nil {
		return err
	}
	batchCh := make(chan batch, len(chunks)/ix.cfg.IndexBatch+1)
	for left := 0; left < len(chunks); left += ix.cfg.IndexBatch {
		right := min(left+ix.cfg.IndexBatch, len(chunks))
		batchCh <- batch{seq: left, texts: chunks[left:right]}
	}
	close(batchCh)
	var (
		wg sync.WaitGroup
		mu sync.Mutex // serializes sqlite writes
	)
	for w := 0; w < ix.cfg.IndexWorkers; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for b := range batchCh {
				ix.embedAndStore(id, fileName, b, &mu)
			}
		}(w)
	}
	wg.Wait()
	return nil
}

func (ix *Indexer) embedAndStore(worker int, fileName string, b batch, mu *sync.Mutex) {
	var vecs [][]float32
	if ix.emb != nil && ix.cfg.EmbedURL != "" {
		var err error
		vecs, err = ix.emb.Embed(b.texts)
		if err != nil {
			ix.logger.Warn("embedding failed, storing chunks without vectors",
				"worker", worker, "file", fileName, "error", err)
			vecs = nil
		}
	}
	mu.Lock()
	defer mu.Unlock()
	for i, text := range b.texts {
		chunk := &models.DocChunk{
			FileName: fileName,
			Seq:      b.seq + i,
			Text:     text,
		}
		if i < len(vecs) {
			chunk.Embedding = storage.SerializeVector(vecs[i])
		}
		if err := ix.store.WriteChunk(chunk); err != nil {
			ix.logger.Error("failed to write chunk", "error", err, "file", fileName, "seq", chunk.Seq)
		}
	}
}
