package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"cardsmith/asseturi"
	"cardsmith/charx"
	"cardsmith/config"
	"cardsmith/models"
	"cardsmith/pngmeta"
)

type Server struct {
	// nolint
	config *config.Config
}

func (srv *Server) ListenToRequests(port string) {
	mux := http.NewServeMux()
	server := &http.Server{
		Addr:         "localhost:" + port,
		Handler:      mux,
		ReadTimeout:  time.Second * 30,
		WriteTimeout: time.Second * 30,
	}
	mux.HandleFunc("GET /ping", pingHandler)
	mux.HandleFunc("GET /cards", listCardsHandler)
	mux.HandleFunc("GET /cards/{id}", getCardHandler)
	mux.HandleFunc("POST /cards/import/png", importPngHandler)
	mux.HandleFunc("POST /cards/import/charx", importCharxHandler)
	mux.HandleFunc("POST /cards/{id}/export/png", exportPngHandler)
	mux.HandleFunc("GET /cards/{id}/export/charx", exportCharxHandler)
	mux.HandleFunc("GET /cards/{id}/tokens", tokensHandler)
	mux.HandleFunc("GET /cards/{id}/analysis", analysisHandler)
	fmt.Println("Listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil {
		panic(err)
	}
}

func pingHandler(w http.ResponseWriter, req *http.Request) {
	if _, err := w.Write([]byte("pong")); err != nil {
		logger.Error("server ping", "error", err)
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to write response", "error", err)
	}
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func cardFromReq(w http.ResponseWriter, req *http.Request) *models.CardRecord {
	id, err := strconv.ParseUint(req.PathValue("id"), 10, 32)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "bad card id")
		return nil
	}
	rec, err := store.GetCardByID(uint32(id))
	if err != nil {
		writeErr(w, http.StatusNotFound, "card not found")
		return nil
	}
	return rec
}

func listCardsHandler(w http.ResponseWriter, req *http.Request) {
	cards, err := store.ListCards()
	if err != nil {
		logger.Error("failed to list cards", "error", err)
		writeErr(w, http.StatusInternalServerError, "failed to list cards")
		return
	}
	writeJSON(w, http.StatusOK, cards)
}

func getCardHandler(w http.ResponseWriter, req *http.Request) {
	rec := cardFromReq(w, req)
	if rec == nil {
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// warnUnsafeAssets logs asset URIs the current config does not allow
// fetching. Import still proceeds, the card just carries dead references.
func warnUnsafeAssets(card *models.CardFile) {
	opts := asseturi.Opts{
		AllowHTTP: cfg.AllowHTTPAssets,
		AllowFile: cfg.AllowFileAssets,
	}
	for _, a := range card.Assets() {
		if !asseturi.IsSafe(a.URI, opts) {
			logger.Warn("card references unsafe asset uri",
				"card", card.Name(), "type", a.Type, "name", a.Name, "uri", a.URI)
		}
	}
}

// storeCard persists a freshly imported card plus its first version row.
func storeCard(card *models.CardFile) (*models.CardRecord, error) {
	warnUnsafeAssets(card)
	doc, err := card.CardJSON()
	if err != nil {
		return nil, err
	}
	now := time.Now()
	rec, err := store.UpsertCard(&models.CardRecord{
		Name:      card.Name(),
		Spec:      string(card.Spec),
		Doc:       string(doc),
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, err
	}
	if _, err := store.AddVersion(&models.CardVersion{
		CardID: rec.ID,
		Doc:    rec.Doc,
		Note:   "imported",
	}); err != nil {
		return nil, err
	}
	return rec, nil
}

func importPngHandler(w http.ResponseWriter, req *http.Request) {
	data, err := io.ReadAll(req.Body)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "failed to read body")
		return
	}
	card, found, err := pngmeta.ExtractCard(data)
	if err != nil {
		// malformed container, not an empty result
		writeErr(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if !found {
		writeErr(w, http.StatusNotFound, "png carries no card data")
		return
	}
	rec, err := storeCard(card)
	if err != nil {
		logger.Error("failed to store imported card", "error", err)
		writeErr(w, http.StatusInternalServerError, "failed to store card")
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func importCharxHandler(w http.ResponseWriter, req *http.Request) {
	data, err := io.ReadAll(req.Body)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "failed to read body")
		return
	}
	card, err := charx.Extract(data)
	if err != nil {
		writeErr(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	rec, err := storeCard(card)
	if err != nil {
		logger.Error("failed to store imported card", "error", err)
		writeErr(w, http.StatusInternalServerError, "failed to store card")
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

// exportPngHandler embeds the stored card into the base PNG sent as the
// request body and streams the result back.
func exportPngHandler(w http.ResponseWriter, req *http.Request) {
	rec := cardFromReq(w, req)
	if rec == nil {
		return
	}
	base, err := io.ReadAll(req.Body)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "failed to read base png")
		return
	}
	card := models.ParseCard(json.RawMessage(rec.Doc))
	if card == nil {
		writeErr(w, http.StatusInternalServerError, "stored document is not a card")
		return
	}
	out, err := pngmeta.EmbedCard(base, card)
	if err != nil {
		writeErr(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	w.Header().Set("Content-Type", "image/png")
	if _, err := w.Write(out); err != nil {
		logger.Error("failed to write png", "error", err)
	}
}

func exportCharxHandler(w http.ResponseWriter, req *http.Request) {
	rec := cardFromReq(w, req)
	if rec == nil {
		return
	}
	card := models.ParseCard(json.RawMessage(rec.Doc))
	if card == nil {
		writeErr(w, http.StatusInternalServerError, "stored document is not a card")
		return
	}
	resolved := resolveCardAssets(card)
	if problems := charx.ValidateBuild(card, resolved); len(problems) > 0 {
		// advisory only; the export still runs
		logger.Warn("charx validation", "card", rec.ID, "problems", problems)
		w.Header().Set("X-Charx-Warnings", strconv.Itoa(len(problems)))
	}
	res, err := builder.Build(card, resolved)
	if err != nil {
		writeErr(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", rec.Name+".charx"))
	if _, err := w.Write(res.Archive); err != nil {
		logger.Error("failed to write archive", "error", err)
	}
}

// resolveCardAssets backs every internal asset reference with storage
// bytes; unresolved ones are left out and the builder records the skip.
func resolveCardAssets(card *models.CardFile) []models.ResolvedAsset {
	var resolved []models.ResolvedAsset
	for _, a := range card.Assets() {
		ra, err := store.ResolveAsset(string(a.Type), a.Name)
		if err != nil {
			logger.Warn("asset not in storage", "type", a.Type, "name", a.Name, "error", err)
			continue
		}
		resolved = append(resolved, *ra)
	}
	return resolved
}

func tokensHandler(w http.ResponseWriter, req *http.Request) {
	rec := cardFromReq(w, req)
	if rec == nil {
		return
	}
	card := models.ParseCard(json.RawMessage(rec.Doc))
	if card == nil {
		writeErr(w, http.StatusInternalServerError, "stored document is not a card")
		return
	}
	writeJSON(w, http.StatusOK, counter.FieldCounts(card))
}

func analysisHandler(w http.ResponseWriter, req *http.Request) {
	rec := cardFromReq(w, req)
	if rec == nil {
		return
	}
	card := models.ParseCard(json.RawMessage(rec.Doc))
	if card == nil {
		writeErr(w, http.StatusInternalServerError, "stored document is not a card")
		return
	}
	redundancy, err := anlz.FindRedundancy(card, 0.6)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	var book *models.Lorebook
	if card.V3 != nil {
		book = card.V3.Data.CharacterBook
	}
	sample := req.URL.Query().Get("sample")
	if sample == "" {
		sample = card.Name()
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"redundancy": redundancy,
		"triggers":   anlz.LoreTriggers(book, sample),
	})
}
