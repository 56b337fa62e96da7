package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"kitchenops/internal/aggregate"
	"kitchenops/internal/exports"
	applog "kitchenops/internal/log"
	"kitchenops/internal/planning"
	"kitchenops/internal/reports"
	"kitchenops/internal/validation"
)

const (
	reportsPrefix     = "/app/api/reports"
	downloadsPrefix   = reportsPrefix + "/downloads"
	defaultExportTTL  = 15 * time.Minute
	defaultCurrency   = "₹"
	maxReportFormSize = 1 << 20
)

var (
	exportStore    exports.Store
	pdfRenderer    reports.PDFRenderer
	reportCurrency = defaultCurrency
	exportTTL      = defaultExportTTL

	nowFunc = time.Now
)

// ConfigureReports wires the artifact store and PDF renderer used by the report endpoints.
// A nil store disables link delivery and a nil renderer disables PDF output.
func ConfigureReports(store exports.Store, renderer reports.PDFRenderer, currency string, ttl time.Duration) {
	exportStore = store
	pdfRenderer = renderer
	reportCurrency = strings.TrimSpace(currency)
	if reportCurrency == "" {
		reportCurrency = defaultCurrency
	}
	exportTTL = ttl
	if exportTTL <= 0 {
		exportTTL = defaultExportTTL
	}
}

type downloadResponse struct {
	Token     string    `json:"token"`
	URL       string    `json:"url"`
	FileName  string    `json:"file_name"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IngredientsReport builds the combined ingredients report for a day and returns it inline or
// as a download link.
func IngredientsReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	if !requireDatabase(w, r) {
		return
	}

	req, ok := readReportRequest(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	report, err := reports.Build(ctx, database, &req)
	if err != nil {
		writeReportError(w, r, err)
		return
	}

	artifact, err := reports.Render(ctx, report, req.Format, renderOptions())
	if err != nil {
		writeReportError(w, r, err)
		return
	}

	applog.Info(ctx, "ingredients report generated",
		"date", planning.FormatDay(report.Date),
		"format", req.Format,
		"sections", len(report.Sections),
		"deliver", req.Deliver,
	)
	deliver(w, r, artifact, req.Deliver)
}

// RecipesReport prints every distinct recipe planned for the selection.
func RecipesReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	if !requireDatabase(w, r) {
		return
	}

	req, ok := readReportRequest(w, r)
	if !ok {
		return
	}
	if strings.TrimSpace(req.Format) == "" {
		req.Format = reports.FormatPDF
	}
	req.IncludeRecipes = true

	ctx := r.Context()
	report, err := reports.Build(ctx, database, &req)
	if err != nil {
		writeReportError(w, r, err)
		return
	}

	artifact, err := reports.RenderRecipes(ctx, report.Date, report.Recipes, req.Format, renderOptions())
	if err != nil {
		writeReportError(w, r, err)
		return
	}

	applog.Info(ctx, "recipes report generated",
		"date", planning.FormatDay(report.Date),
		"recipes", len(report.Recipes),
		"format", req.Format,
	)
	deliver(w, r, artifact, req.Deliver)
}

// Download streams an artifact previously stored with deliver=link.
func Download(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	if exportStore == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "downloads are not configured")
		return
	}

	segments := resourceSegments(r.URL.Path, downloadsPrefix)
	if len(segments) != 1 {
		http.NotFound(w, r)
		return
	}

	artifact, err := exportStore.Get(r.Context(), segments[0])
	if err != nil {
		if errors.Is(err, exports.ErrNotFound) {
			writeJSONError(w, http.StatusNotFound, "download not found or expired")
			return
		}
		applog.Error(r.Context(), "failed to load export", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to load download")
		return
	}
	writeArtifact(w, artifact)
}

func renderOptions() reports.RenderOptions {
	return reports.RenderOptions{Currency: reportCurrency, PDF: pdfRenderer}
}

// readReportRequest accepts a JSON body or the dashboard form. On failure the response has
// already been written.
func readReportRequest(w http.ResponseWriter, r *http.Request) (reports.Request, bool) {
	var req reports.Request
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&req); err != nil {
			applog.Debug(r.Context(), "invalid report payload", "error", err)
			writeJSONError(w, http.StatusBadRequest, "invalid request payload: "+err.Error())
			return reports.Request{}, false
		}
		return req, true
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxReportFormSize)
	if err := r.ParseForm(); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid submission")
		return reports.Request{}, false
	}

	req = reports.Request{
		Date:             r.FormValue("date"),
		MealTypes:        r.Form["meal_types"],
		CombineMealTypes: formBool(r.FormValue("combine_meal_types")),
		CombineKitchens:  formBool(r.FormValue("combine_kitchens")),
		IncludeRecipes:   formBool(r.FormValue("include_recipes")),
		Format:           r.FormValue("format"),
		Deliver:          r.FormValue("deliver"),
	}
	for _, raw := range r.Form["kitchen_ids"] {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		id, ok := parseID(raw)
		if !ok {
			writeJSONError(w, http.StatusBadRequest, "kitchen_ids must be positive integers")
			return reports.Request{}, false
		}
		req.KitchenIDs = append(req.KitchenIDs, id)
	}
	return req, true
}

func formBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "on", "yes":
		return true
	}
	parsed, err := strconv.ParseBool(strings.TrimSpace(value))
	return err == nil && parsed
}

func writeReportError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		writeJSONError(w, http.StatusBadRequest, verr.Error())
	case errors.Is(err, planning.ErrInvalidDate), errors.Is(err, reports.ErrUnsupportedFormat):
		writeJSONError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, reports.ErrNoMenus):
		writeJSONError(w, http.StatusNotFound, "no meals are planned for this selection")
	case errors.Is(err, aggregate.ErrMissingRecipe), errors.Is(err, aggregate.ErrMissingKitchen):
		writeJSONError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, reports.ErrPDFUnavailable), errors.Is(err, gorm.ErrInvalidDB):
		writeJSONError(w, http.StatusServiceUnavailable, "report rendering is unavailable")
	default:
		applog.Error(r.Context(), "failed to generate report", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to generate report")
	}
}

func deliver(w http.ResponseWriter, r *http.Request, artifact exports.Artifact, mode string) {
	if mode != reports.DeliverLink {
		writeArtifact(w, artifact)
		return
	}
	if exportStore == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "downloads are not configured")
		return
	}

	token, err := exportStore.Put(r.Context(), artifact, exportTTL)
	if err != nil {
		applog.Error(r.Context(), "failed to store export", "error", err, "file", artifact.FileName)
		writeJSONError(w, http.StatusInternalServerError, "unable to store report")
		return
	}
	writeJSON(w, http.StatusCreated, downloadResponse{
		Token:     token,
		URL:       downloadsPrefix + "/" + token,
		FileName:  artifact.FileName,
		ExpiresAt: nowFunc().UTC().Add(exportTTL),
	})
}

func writeArtifact(w http.ResponseWriter, artifact exports.Artifact) {
	w.Header().Set("Content-Type", artifact.ContentType)
	if !strings.HasPrefix(artifact.ContentType, "application/json") {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", artifact.FileName))
	}
	w.Header().Set("Content-Length", strconv.Itoa(len(artifact.Data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(artifact.Data); err != nil {
		applog.Debug(context.Background(), "failed to write artifact", "error", err)
	}
}
