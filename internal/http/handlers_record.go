package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"fuelog/internal/core"
)

func (s *Server) handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		MethodNotAllowedError("POST").Write(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "method", r.Method, "url", r.URL.Path)
		BadRequestError("Invalid request format").Write(w)
		return
	}

	dateStr := sanitizeInput(r.Form.Get("date"))
	date, err := parseDate(dateStr)
	if err != nil {
		UnprocessableEntityError("Invalid date").Write(w)
		return
	}

	odometer, err := strconv.ParseInt(sanitizeInput(r.Form.Get("odometer")), 10, 64)
	if err != nil || odometer <= 0 {
		UnprocessableEntityError("Invalid odometer reading").Write(w)
		return
	}

	gallons, err := strconv.ParseFloat(sanitizeInput(r.Form.Get("gallons")), 64)
	if err != nil || gallons <= 0 {
		UnprocessableEntityError("Invalid fuel volume").Write(w)
		return
	}

	costStr := strings.TrimSpace(r.Form.Get("cost"))
	cents, err := core.ParseDecimalToCents(costStr)
	if err != nil {
		UnprocessableEntityError("Invalid cost").Write(w)
		return
	}

	rec := core.GasRecord{
		Date:     date,
		Odometer: odometer,
		Gallons:  gallons,
		Cost:     core.Money{Cents: cents},
		FullTank: r.Form.Get("full_tank") != "",
	}

	id, err := s.records.CreateRecord(r.Context(), rec)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to save gas record",
			"error", err,
			"odometer", rec.Odometer,
			"gallons", rec.Gallons,
			"cost_cents", rec.Cost.Cents)
		InternalServerError("Error saving fill-up").Write(w)
		return
	}

	year, month := monthOf(rec)
	s.tableCache.Delete(cacheKey(year, month))

	slog.InfoContext(r.Context(), "Gas record created",
		"record_id", id,
		"odometer", rec.Odometer,
		"gallons", rec.Gallons,
		"cost_cents", rec.Cost.Cents,
		"full_tank", rec.FullTank)

	msg := fmt.Sprintf("Fill-up saved (#%d): %s, %s %s",
		id, escape(dateStr), escape(costStr), s.units.LiquidVolumeLabel())

	NewHTMXResponse().
		TriggerRecordCreated(year, month).
		TriggerStatsRefresh(year, month).
		TriggerFormReset().
		TriggerSuccessNotification(msg).
		Write(w)
}

func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete && r.Method != http.MethodPost {
		MethodNotAllowedError("DELETE, POST").Write(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "method", r.Method, "url", r.URL.Path)
		BadRequestError("Invalid request format").Write(w)
		return
	}

	id, err := strconv.ParseInt(sanitizeInput(r.FormValue("id")), 10, 64)
	if err != nil || id <= 0 {
		BadRequestError("Missing record ID").Write(w)
		return
	}

	if err := s.records.DeleteRecord(r.Context(), id); err != nil {
		slog.ErrorContext(r.Context(), "Failed to delete gas record", "error", err, "record_id", id)
		InternalServerError("Error deleting fill-up").Write(w)
		return
	}

	year, month := parseYearMonth(r)
	s.tableCache.Delete(cacheKey(year, month))

	slog.InfoContext(r.Context(), "Gas record deleted", "record_id", id)

	NewHTMXResponse().
		TriggerRecordDeleted(year, month).
		TriggerStatsRefresh(year, month).
		TriggerNotification(NotificationSuccess, "Fill-up deleted", 2000).
		Write(w)
}

// handleRecordVisibility toggles whether a record's fuel economy counts
// toward the monthly statistics.
func (s *Server) handleRecordVisibility(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		MethodNotAllowedError("POST").Write(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "method", r.Method, "url", r.URL.Path)
		BadRequestError("Invalid request format").Write(w)
		return
	}

	id, err := strconv.ParseInt(sanitizeInput(r.FormValue("id")), 10, 64)
	if err != nil || id <= 0 {
		BadRequestError("Missing record ID").Write(w)
		return
	}
	hidden := sanitizeInput(r.FormValue("hidden")) == "true"

	if err := s.records.SetCalculationHidden(r.Context(), id, hidden); err != nil {
		slog.ErrorContext(r.Context(), "Failed to update record visibility",
			"error", err, "record_id", id, "hidden", hidden)
		InternalServerError("Error updating fill-up").Write(w)
		return
	}

	year, month := parseYearMonth(r)
	s.tableCache.Delete(cacheKey(year, month))

	slog.InfoContext(r.Context(), "Gas record visibility updated", "record_id", id, "hidden", hidden)

	msg := "Fill-up included in statistics"
	if hidden {
		msg = "Fill-up excluded from statistics"
	}

	NewHTMXResponse().
		TriggerStatsRefresh(year, month).
		TriggerNotification(NotificationSuccess, msg, 2000).
		Write(w)
}
