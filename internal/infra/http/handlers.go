package http

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/Spok95/nutrition-calc/internal/domain/foods"
	"github.com/Spok95/nutrition-calc/internal/domain/meal"
	"github.com/Spok95/nutrition-calc/internal/infra/metrics"
)

const maxBodyBytes = 1 << 20

//go:embed web/index.html
var indexHTML []byte

type Handler struct {
	log      *slog.Logger
	table    *foods.Table
	strategy meal.Strategy
	metrics  *metrics.Metrics
}

func NewHandler(log *slog.Logger, table *foods.Table, strategy meal.Strategy, m *metrics.Metrics) *Handler {
	return &Handler{log: log, table: table, strategy: strategy, metrics: m}
}

type calculateResponse struct {
	Success   bool         `json:"success"`
	Nutrition *meal.Totals `json:"nutrition,omitempty"`
	Message   string       `json:"message,omitempty"`
	Matched   []meal.Match `json:"matched,omitempty"`
	Unmatched []string     `json:"unmatched,omitempty"`
	Error     string       `json:"error,omitempty"`
}

func (h *Handler) Home(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(indexHTML)
}

// Calculate — POST /calculate {"food_items": {"white rice": 200}}.
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.fail(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		h.log.Error("read request body failed", "err", err)
		h.fail(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	req, err := meal.ParseRequest(body)
	if err != nil {
		var fe *meal.RequestFormatError
		if errors.As(err, &fe) {
			h.metrics.Calculation("http", "bad_request")
			h.log.Info("bad calculate request", "err", err)
			h.fail(w, http.StatusBadRequest, fe.Error())
			return
		}
		h.log.Error("parse calculate request failed", "err", err)
		h.fail(w, http.StatusInternalServerError, err.Error())
		return
	}

	res := h.strategy.Breakdown(req)
	if !res.Totals.IsFinite() {
		h.metrics.Calculation("http", "bad_request")
		h.log.Info("meal totals overflow", "items", len(req))
		h.fail(w, http.StatusBadRequest, "invalid request: food_items: quantities are too large, totals overflow")
		return
	}
	for _, m := range res.Matches {
		h.log.Debug("food matched", "requested", m.Requested, "food", m.Food, "grams", m.Grams)
	}
	for _, name := range res.Unmatched {
		h.log.Debug("food not found", "requested", name)
	}
	h.metrics.Calculation("http", "ok")
	h.metrics.Lookups(len(res.Matches), len(res.Unmatched))

	writeJSON(w, http.StatusOK, calculateResponse{
		Success:   true,
		Nutrition: &res.Totals,
		Message:   "Nutrition calculated successfully!",
		Matched:   res.Matches,
		Unmatched: res.Unmatched,
	})
}

// Foods — все названия в порядке таблицы (для автодополнения).
func (h *Handler) Foods(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.table.Names())
}

func (h *Handler) FoodsExcel(w http.ResponseWriter, _ *http.Request) {
	buf := &bytes.Buffer{}
	if err := foods.WriteXLSX(h.table, buf); err != nil {
		h.log.Error("export foods failed", "err", err)
		http.Error(w, "failed to build file", http.StatusInternalServerError)
		return
	}

	fileName := fmt.Sprintf("foods_%s.xlsx", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	_, _ = w.Write(buf.Bytes())
}

func (h *Handler) fail(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, calculateResponse{Success: false, Error: msg})
}

// writeJSON кодирует ответ до записи статуса: если кодирование не удалось,
// клиент получает 500 в том же формате {"success":false,"error":...}.
func writeJSON(w http.ResponseWriter, code int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		code = http.StatusInternalServerError
		body, _ = json.Marshal(calculateResponse{Success: false, Error: "failed to encode response"})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(append(body, '\n'))
}
