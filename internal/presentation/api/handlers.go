package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/greenstack/ecoswitch/internal/application/services"
	"github.com/greenstack/ecoswitch/internal/domain/models"
	"github.com/greenstack/ecoswitch/internal/infrastructure/logging"
	"github.com/greenstack/ecoswitch/internal/infrastructure/metrics"
)

// Handler handles HTTP requests for the ecoswitch API. It wires the
// classifier, router and accountant into a single query pipeline and owns
// the rolling usage history on the pipeline's behalf.
type Handler struct {
	classifier *services.Classifier
	router     *services.ModelRouter
	accountant *services.CarbonAccountant
	ledger     *metrics.UsageLedger
	logger     *logging.StructuredLogger
}

// NewHandler creates a new Handler instance.
func NewHandler(
	classifier *services.Classifier,
	router *services.ModelRouter,
	accountant *services.CarbonAccountant,
	ledger *metrics.UsageLedger,
	logger *logging.StructuredLogger,
) *Handler {
	return &Handler{
		classifier: classifier,
		router:     router,
		accountant: accountant,
		ledger:     ledger,
		logger:     logger,
	}
}

// queryRequest is the body of POST /api/query and /api/suggest-model.
type queryRequest struct {
	Query      string `json:"query"`
	Preference string `json:"preference"`
}

// queryResponse is the full pipeline result for one query.
type queryResponse struct {
	Query      string                   `json:"query"`
	Response   string                   `json:"response"`
	Model      models.ModelDescriptor   `json:"model"`
	Tokens     int                      `json:"tokens"`
	Reasoning  string                   `json:"reasoning"`
	Preference models.Preference        `json:"preference"`
	Verdict    models.ComplexityVerdict `json:"verdict"`
	Impact     models.CarbonImpact      `json:"impact"`
	Savings    models.CarbonSavings     `json:"savings"`
}

// Query handles POST /api/query: classify, select, dispatch, account.
func (h *Handler) Query(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		h.sendErrorResponse(w, http.StatusBadRequest, models.ErrEmptyQuery.Error())
		return
	}

	pref := models.ParsePreference(req.Preference)
	verdict := h.classifier.Classify(req.Query)

	selection, err := h.router.SelectModel(verdict, pref)
	if err != nil {
		h.logger.Error("model selection failed", err)
		h.sendErrorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp, used, err := h.router.GetResponse(r.Context(), selection, req.Query)
	if err != nil {
		var routingErr *models.RoutingError
		if errors.As(err, &routingErr) {
			h.logger.Error("all providers failed", err, map[string]interface{}{
				"attempted": strings.Join(routingErr.Attempted, ","),
			})
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadGateway)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"error":            "all attempted models failed",
				"attempted_models": routingErr.Attempted,
			})
			return
		}
		h.sendErrorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	impact := h.accountant.EstimateImpact(resp.Tokens, used)
	savings := h.accountant.ComputeSavings(resp.Tokens, used, nil)
	h.ledger.Record(models.UsageRecord{Impact: *impact, Savings: *savings})

	h.logger.Info("query served", map[string]interface{}{
		"model":       used.Key,
		"tokens":      resp.Tokens,
		"grams_co2":   impact.TotalGrams,
		"saved_grams": savings.SavedGrams,
		"preference":  string(pref),
	})

	h.sendJSON(w, http.StatusOK, queryResponse{
		Query:      req.Query,
		Response:   resp.Text,
		Model:      used,
		Tokens:     resp.Tokens,
		Reasoning:  selection.Reasoning,
		Preference: pref,
		Verdict:    *verdict,
		Impact:     *impact,
		Savings:    *savings,
	})
}

// SuggestModel handles POST /api/suggest-model: classification and selection
// without calling any provider.
func (h *Handler) SuggestModel(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		h.sendErrorResponse(w, http.StatusBadRequest, models.ErrEmptyQuery.Error())
		return
	}

	pref := models.ParsePreference(req.Preference)
	verdict := h.classifier.Classify(req.Query)

	selection, err := h.router.SelectModel(verdict, pref)
	if err != nil {
		h.sendErrorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.sendJSON(w, http.StatusOK, map[string]interface{}{
		"query":      req.Query,
		"verdict":    verdict,
		"model":      selection.Model,
		"reasoning":  selection.Reasoning,
		"preference": pref,
	})
}

// ListModels handles GET /api/models.
func (h *Handler) ListModels(w http.ResponseWriter, r *http.Request) {
	h.sendJSON(w, http.StatusOK, map[string]interface{}{
		"models": h.router.Catalog(),
	})
}

// Stats handles GET /api/stats: the aggregated usage summary.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	summary := h.accountant.Aggregate(h.ledger.Records())
	h.sendJSON(w, http.StatusOK, summary)
}

// Health handles GET /health endpoint.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.sendJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// sendJSON writes a JSON response.
func (h *Handler) sendJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

// sendErrorResponse sends an error response.
func (h *Handler) sendErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}
