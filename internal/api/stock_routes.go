package api

import (
	"encoding/json"
	"net/http"

	"github.com/sheeranchan/nifty-backend/internal/models"
	"github.com/sheeranchan/nifty-backend/internal/schema"
)

// ingestPayload keeps the batch elements raw so each object can be checked
// against the stock schema before it is decoded.
type ingestPayload struct {
	PriceData []json.RawMessage `json:"price_data"`
}

func (s *Server) handleAddPriceData(w http.ResponseWriter, r *http.Request) {
	var payload ingestPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusInternalServerError, "Internal Server Errors")
		return
	}

	batch := make([]models.IngestRecord, 0, len(payload.PriceData))
	for _, raw := range payload.PriceData {
		if err := schema.ValidateStock(raw); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		var rec models.IngestRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			writeError(w, http.StatusInternalServerError, "Internal Server Errors")
			return
		}
		batch = append(batch, rec)
	}

	if err := s.prices.Ingest(batch); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "Price data is added Successfully")
}

func (s *Server) handlePriceData(w http.ResponseWriter, r *http.Request) {
	symbol := r.PathValue("symbol")
	year := r.URL.Query().Get("year")

	records, err := s.prices.Query(symbol, year)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}
