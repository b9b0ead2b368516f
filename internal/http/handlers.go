package http

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"fuelog/internal/core"
	"fuelog/internal/labels"
	"fuelog/internal/report"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	now := time.Now()
	data := struct {
		Title          string
		Year           int
		Month          int
		Today          string
		AddRecordLabel string
		RecordsLabel   string
		DistanceLabel  string
		VolumeLabel    string
	}{
		Title:          s.labels.Resolve(labels.UITitle),
		Year:           now.Year(),
		Month:          int(now.Month()),
		Today:          now.Format("2006-01-02"),
		AddRecordLabel: s.labels.Resolve(labels.UIAddRecord),
		RecordsLabel:   s.labels.Resolve(labels.UIRecords),
		DistanceLabel:  s.units.DistanceLabel(),
		VolumeLabel:    s.units.LiquidVolumeLabel(),
	}

	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Index template execution failed", "error", err, "template", "index.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.startedAt).String(),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]string)

	if s.templates == nil {
		checks["templates"] = "failed: templates not loaded"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["templates"] = "ok"
	}

	if s.records == nil {
		checks["storage"] = "not_configured"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		now := time.Now()
		if _, err := s.records.MonthSummary(ctx, now.Year(), int(now.Month())); err != nil {
			checks["storage"] = fmt.Sprintf("failed: %v", err)
			status = "not_ready"
			httpStatus = http.StatusServiceUnavailable
		} else {
			checks["storage"] = "ok"
		}
	}

	w.WriteHeader(httpStatus)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status": status,
		"checks": checks,
	})
}

// handleMonthStats renders the monthly statistics table partial.
func (s *Server) handleMonthStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		MethodNotAllowedError("GET").Write(w)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	year, month := parseYearMonth(r)

	key := cacheKey(year, month)
	if html, found := s.tableCache.Get(key); found {
		slog.DebugContext(r.Context(), "Month table cache hit", "year", year, "month", month)
		_, _ = w.Write([]byte(html))
		return
	}

	html, err := s.renderMonthTable(r.Context(), year, month)
	if err != nil {
		slog.ErrorContext(r.Context(), "Month stats error", "error", err, "year", year, "month", month)
		_, _ = w.Write([]byte(`<div class="placeholder">Error loading statistics</div>`))
		return
	}

	s.tableCache.Set(key, html)
	_, _ = w.Write([]byte(html))
}

func (s *Server) renderMonthTable(ctx context.Context, year, month int) (string, error) {
	cctx, cancel := context.WithTimeout(ctx, 7*time.Second)
	defer cancel()

	records, err := s.records.MonthRecords(cctx, year, month)
	if err != nil {
		return "", fmt.Errorf("list month records (year=%d, month=%d): %w", year, month, err)
	}
	trip, err := s.records.MonthSummary(cctx, year, month)
	if err != nil {
		return "", fmt.Errorf("month summary (year=%d, month=%d): %w", year, month, err)
	}

	title := fmt.Sprintf("%s %d", s.labels.MonthName(time.Month(month)), year)
	table := report.NewMonthTable(records, trip, title, s.labels, s.units, s.currency)
	return table.HTML(), nil
}

// handleMonthRecords renders the fill-up list partial.
func (s *Server) handleMonthRecords(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		MethodNotAllowedError("GET").Write(w)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	year, month := parseYearMonth(r)

	cctx, cancel := context.WithTimeout(r.Context(), 7*time.Second)
	defer cancel()
	records, err := s.records.MonthRecords(cctx, year, month)
	if err != nil {
		slog.ErrorContext(r.Context(), "List month records error", "error", err, "year", year, "month", month)
		_, _ = w.Write([]byte(`<div class="placeholder">Error loading fill-ups</div>`))
		return
	}

	type item struct {
		ID       int64
		Date     string
		Odometer int64
		Gallons  string
		Cost     string
		Mileage  string
		FullTank bool
		Hidden   bool
	}

	data := struct {
		Year        int
		Month       int
		HiddenBadge string
		Items       []item
	}{
		Year:        year,
		Month:       month,
		HiddenBadge: s.labels.Resolve(labels.UIHiddenBadge),
	}
	for _, rec := range records {
		it := item{
			ID:       rec.ID,
			Date:     rec.Date.Format("2006-01-02"),
			Odometer: rec.Odometer,
			Gallons:  strconv.FormatFloat(rec.Gallons, 'f', 3, 64),
			Cost:     s.currency.Format(rec.Cost.Amount()),
			Mileage:  report.Unavailable,
			FullTank: rec.FullTank,
			Hidden:   rec.HideCalc,
		}
		if rec.HasCalculation() {
			it.Mileage = fmt.Sprintf("%.2f %s", rec.Calc.Mileage, s.units.MileageLabel())
		}
		data.Items = append(data.Items, it)
	}

	if err := s.templates.ExecuteTemplate(w, "month_records.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Month records template execution failed", "error", err,
			"template", "month_records.html", "year", year, "month", month)
		_, _ = w.Write([]byte(`<div class="placeholder">Error rendering fill-ups</div>`))
	}
}

// monthOf reports the reporting month a record belongs to.
func monthOf(rec core.GasRecord) (year, month int) {
	return rec.Date.Year(), rec.Date.Month()
}

func escape(s string) string { return template.HTMLEscapeString(s) }
