package handlers

import (
	"encoding/json"
	"net/http"
	"sort"
	"strings"

	"github.com/luwen/surgelens/internal/analysis"
	"github.com/luwen/surgelens/internal/strategy"
	"github.com/luwen/surgelens/pkg/logger"
)

// AnalysisHandler exposes the four analysis operations over HTTP.
type AnalysisHandler struct {
	orchestrator *analysis.Orchestrator
	logger       *logger.Logger
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(orchestrator *analysis.Orchestrator, log *logger.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		orchestrator: orchestrator,
		logger:       log,
	}
}

// StockArg is one symbol in a request body.
type StockArg struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

func (a StockArg) ref() strategy.StockRef {
	return strategy.StockRef{Symbol: strings.TrimSpace(a.Symbol), Name: strings.TrimSpace(a.Name)}
}

// AnalyzeRequest is the /analyze request body.
type AnalyzeRequest struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Days   int    `json:"days"`
}

// Analyze runs the full single-stock pipeline.
// POST /api/v1/analyze
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	symbol := strings.TrimSpace(req.Symbol)
	if symbol == "" {
		respondError(w, http.StatusBadRequest, "symbol is required")
		return
	}

	report, err := h.orchestrator.Analyze(r.Context(), symbol, strings.TrimSpace(req.Name), req.Days)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, report)
}

// SurgesRequest is the /surges request body.
type SurgesRequest struct {
	Symbol    string  `json:"symbol"`
	Name      string  `json:"name"`
	Days      int     `json:"days"`
	Threshold float64 `json:"threshold"`
}

// Surges runs surge detection only.
// POST /api/v1/surges
func (h *AnalysisHandler) Surges(w http.ResponseWriter, r *http.Request) {
	var req SurgesRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	symbol := strings.TrimSpace(req.Symbol)
	if symbol == "" {
		respondError(w, http.StatusBadRequest, "symbol is required")
		return
	}
	if req.Threshold < 0 {
		respondError(w, http.StatusBadRequest, "threshold must be positive")
		return
	}

	summary, err := h.orchestrator.SurgeReport(r.Context(), symbol, strings.TrimSpace(req.Name), req.Days, req.Threshold)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, summary)
}

// CompareRequest is the /compare request body.
type CompareRequest struct {
	Stocks []StockArg `json:"stocks"`
	Days   int        `json:"days"`
}

// Compare ranks several symbols over a shared window.
// POST /api/v1/compare
func (h *AnalysisHandler) Compare(w http.ResponseWriter, r *http.Request) {
	var req CompareRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	refs := make([]strategy.StockRef, 0, len(req.Stocks))
	for _, s := range req.Stocks {
		refs = append(refs, s.ref())
	}

	result, err := h.orchestrator.Compare(r.Context(), refs, req.Days)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// BatchRequest is the /batch request body. Stocks wins over Preset when
// both are present.
type BatchRequest struct {
	Preset string     `json:"preset"`
	Stocks []StockArg `json:"stocks"`
	Days   int        `json:"days"`
}

// Batch analyzes a preset and builds a leaderboard.
// POST /api/v1/batch
func (h *AnalysisHandler) Batch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	preset := strings.TrimSpace(req.Preset)
	refs := make([]strategy.StockRef, 0, len(req.Stocks))
	for _, s := range req.Stocks {
		refs = append(refs, s.ref())
	}
	if preset == "" && len(refs) == 0 {
		respondError(w, http.StatusBadRequest, "preset or stocks is required")
		return
	}

	board, err := h.orchestrator.Batch(r.Context(), preset, refs, req.Days)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, board)
}

// Presets lists the configured symbol presets.
// GET /api/v1/presets
func (h *AnalysisHandler) Presets(w http.ResponseWriter, r *http.Request) {
	presets := h.orchestrator.Config().Presets

	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"names":   names,
		"presets": presets,
	})
}

func decodeBody(r *http.Request, dest interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dest)
}
