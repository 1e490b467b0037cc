package journal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/2beens/gymlog/internal/auth"
	"github.com/2beens/gymlog/internal/backup"
	"github.com/2beens/gymlog/internal/calendar"
	"github.com/2beens/gymlog/internal/csvio"
	"github.com/2beens/gymlog/internal/datekey"
	"github.com/2beens/gymlog/internal/media"
	"github.com/2beens/gymlog/internal/storage"
	"github.com/2beens/gymlog/internal/structured"
	"github.com/2beens/gymlog/internal/telemetry/tracing"
	"github.com/2beens/gymlog/internal/workouts"
	"github.com/2beens/gymlog/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=journal_test

const (
	maxUploadBytes   = 200 << 20
	maxImportBytes   = 10 << 20
	maxWorkoutsBytes = 20 << 20
)

type journalService interface {
	Today() string
	Workouts(ctx context.Context, userID string) (workouts.WorkoutMap, error)
	ReplaceWorkouts(ctx context.Context, userID string, raw []byte) (workouts.WorkoutMap, error)
	Day(ctx context.Context, userID, date string) (workouts.WorkoutDay, bool, error)
	SaveDay(ctx context.Context, userID, date string, entries []workouts.WorkoutEntry, pb bool) (workouts.WorkoutDay, error)
	ClearDay(ctx context.Context, userID, date string) (bool, error)
	TogglePB(ctx context.Context, userID, date string) (bool, error)
	MoveEntry(ctx context.Context, userID, date string, from, to int) (workouts.WorkoutDay, error)
	DeleteEntry(ctx context.Context, userID, date, entryID string) (workouts.WorkoutDay, error)
	Structured(ctx context.Context, userID, date, entryID string) (*structured.Workout, error)
	UpsertStructured(ctx context.Context, userID, date, entryID string, w structured.Workout) (workouts.WorkoutDay, error)
	RemoveStructured(ctx context.Context, userID, date, entryID string) (workouts.WorkoutDay, error)
	AttachMedia(ctx context.Context, userID, date, entryID string, upload MediaUpload) (*workouts.Media, error)
	RemoveMedia(ctx context.Context, userID, date, entryID string) (workouts.WorkoutDay, error)
	RemoveLegacyImage(ctx context.Context, userID, date string) (workouts.WorkoutDay, error)
	MediaURL(ctx context.Context, userID, path string) (string, error)
	Streaks(ctx context.Context, userID string) (workouts.Stats, error)
	Calendar(ctx context.Context, userID string, params CalendarParams) (calendar.View, error)
	ExportCSV(ctx context.Context, userID string) (string, error)
	ImportCSV(ctx context.Context, userID, text string, confirm bool) (csvio.ImportReport, error)
	Settings(ctx context.Context, userID string) (workouts.Settings, error)
	SaveSettings(ctx context.Context, userID string, settings workouts.Settings) error
	BackupNow(ctx context.Context, userID string) (*backup.Backup, error)
	BackupInfo(ctx context.Context, userID string) (*backup.Backup, error)
	Restore(ctx context.Context, userID string, confirm bool) (workouts.WorkoutMap, error)
}

// mediaOpener serves objects kept on local disk. Nil with S3 storage,
// presigned URLs point straight at the bucket then.
type mediaOpener interface {
	Open(ctx context.Context, key string) (*os.File, error)
}

type Handler struct {
	service journalService
	opener  mediaOpener
}

func NewHandler(service journalService, opener mediaOpener) *Handler {
	return &Handler{
		service: service,
		opener:  opener,
	}
}

func (h *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/workouts", h.handleGetWorkouts).Methods("GET", "OPTIONS").Name("get-workouts")
	router.HandleFunc("/workouts", h.handleReplaceWorkouts).Methods("PUT", "OPTIONS").Name("replace-workouts")
	router.HandleFunc("/workouts/streaks", h.handleStreaks).Methods("GET", "OPTIONS").Name("streaks")
	router.HandleFunc("/workouts/export.csv", h.handleExport).Methods("GET", "OPTIONS").Name("export-csv")
	router.HandleFunc("/workouts/import", h.handleImport).Methods("POST", "OPTIONS").Name("import-csv")

	day := router.PathPrefix("/workouts/day/{date}").Subrouter()
	day.HandleFunc("", h.handleGetDay).Methods("GET", "OPTIONS").Name("get-day")
	day.HandleFunc("", h.handleSaveDay).Methods("PUT", "OPTIONS").Name("save-day")
	day.HandleFunc("", h.handleClearDay).Methods("DELETE", "OPTIONS").Name("clear-day")
	day.HandleFunc("/pb", h.handleTogglePB).Methods("POST", "OPTIONS").Name("toggle-pb")
	day.HandleFunc("/move", h.handleMoveEntry).Methods("POST", "OPTIONS").Name("move-entry")
	day.HandleFunc("/image", h.handleRemoveLegacyImage).Methods("DELETE", "OPTIONS").Name("remove-legacy-image")
	day.HandleFunc("/entry/{entry}", h.handleDeleteEntry).Methods("DELETE", "OPTIONS").Name("delete-entry")
	day.HandleFunc("/entry/{entry}/structured", h.handleGetStructured).Methods("GET", "OPTIONS").Name("get-structured")
	day.HandleFunc("/entry/{entry}/structured", h.handleUpsertStructured).Methods("PUT", "OPTIONS").Name("upsert-structured")
	day.HandleFunc("/entry/{entry}/structured", h.handleRemoveStructured).Methods("DELETE", "OPTIONS").Name("remove-structured")
	day.HandleFunc("/entry/{entry}/media", h.handleAttachMedia).Methods("POST", "OPTIONS").Name("attach-media")
	day.HandleFunc("/entry/{entry}/media", h.handleRemoveMedia).Methods("DELETE", "OPTIONS").Name("remove-media")

	router.HandleFunc("/calendar/{year:[0-9]{4}}/{month:[0-9]{1,2}}", h.handleCalendar).Methods("GET", "OPTIONS").Name("calendar")
	router.HandleFunc("/settings", h.handleGetSettings).Methods("GET", "OPTIONS").Name("get-settings")
	router.HandleFunc("/settings", h.handleSaveSettings).Methods("PUT", "OPTIONS").Name("save-settings")

	router.HandleFunc("/backup", h.handleBackupInfo).Methods("GET", "OPTIONS").Name("backup-info")
	router.HandleFunc("/backup/now", h.handleBackupNow).Methods("POST", "OPTIONS").Name("backup-now")
	router.HandleFunc("/backup/restore", h.handleRestore).Methods("POST", "OPTIONS").Name("backup-restore")

	router.HandleFunc("/media/url", h.handleMediaURL).Methods("GET", "OPTIONS").Name("media-url")
	router.PathPrefix("/media/raw/").HandlerFunc(h.handleMediaRaw).Methods("GET", "OPTIONS").Name("media-raw")
}

// writeError maps service errors to status codes. Anything unexpected is
// logged and hidden behind a 500.
func writeError(w http.ResponseWriter, op, userID string, err error) {
	switch {
	case errors.Is(err, datekey.ErrInvalidKey):
		http.Error(w, "error, invalid date", http.StatusBadRequest)
	case errors.Is(err, workouts.ErrDayNotFound),
		errors.Is(err, workouts.ErrEntryNotFound),
		errors.Is(err, ErrStructuredNotFound),
		errors.Is(err, backup.ErrBackupNotFound),
		errors.Is(err, media.ErrObjectNotFound):
		http.Error(w, "error, "+err.Error(), http.StatusNotFound)
	case errors.Is(err, workouts.ErrDayFull),
		errors.Is(err, workouts.ErrInvalidPosition),
		errors.Is(err, workouts.ErrInvalidMedia),
		errors.Is(err, media.ErrUnsupportedContent),
		errors.Is(err, media.ErrInvalidKey),
		errors.Is(err, storage.ErrInvalidSettings):
		http.Error(w, "error, "+err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrMediaNotOwned):
		http.Error(w, "no can do", http.StatusForbidden)
	case errors.Is(err, ErrConfirmationRequired):
		http.Error(w, "error, confirmation required", http.StatusPreconditionRequired)
	case errors.Is(err, ErrNoMediaStore), errors.Is(err, ErrNoBackups):
		http.Error(w, "error, "+err.Error(), http.StatusNotImplemented)
	default:
		log.Errorf("%s [%s]: %s", op, userID, err)
		http.Error(w, op+" failed", http.StatusInternalServerError)
	}
}

func userFromRequest(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
	}
	return userID, ok
}

func boolParam(r *http.Request, name string) bool {
	v, _ := strconv.ParseBool(r.URL.Query().Get(name))
	return v
}

type WorkoutsResponse struct {
	Today    string              `json:"today"`
	Workouts workouts.WorkoutMap `json:"workouts"`
}

type DayResponse struct {
	Today  string              `json:"today"`
	Date   string              `json:"date"`
	Exists bool                `json:"exists"`
	Day    workouts.WorkoutDay `json:"day"`
}

func (h *Handler) writeDay(w http.ResponseWriter, date string, day workouts.WorkoutDay) {
	pkg.WriteJSON(w, DayResponse{
		Today:  h.service.Today(),
		Date:   date,
		Exists: !workouts.IsEmptyDay(day),
		Day:    day,
	}, http.StatusOK)
}

func (h *Handler) handleGetWorkouts(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.journal.getworkouts")
	defer span.End()

	userID, ok := userFromRequest(w, r)
	if !ok {
		return
	}

	m, err := h.service.Workouts(ctx, userID)
	if err != nil {
		writeError(w, "get workouts", userID, err)
		return
	}
	pkg.WriteJSON(w, WorkoutsResponse{Today: h.service.Today(), Workouts: m}, http.StatusOK)
}

func (h *Handler) handleReplaceWorkouts(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.journal.replaceworkouts")
	defer span.End()

	userID, ok := userFromRequest(w, r)
	if !ok {
		return
	}

	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWorkoutsBytes))
	if err != nil {
		http.Error(w, "error, read body", http.StatusBadRequest)
		return
	}
	if !json.Valid(raw) {
		http.Error(w, "error, invalid json", http.StatusBadRequest)
		return
	}

	m, err := h.service.ReplaceWorkouts(ctx, userID, raw)
	if err != nil {
		writeError(w, "replace workouts", userID, err)
		return
	}
	span.SetAttributes(attribute.Int("days", len(m)))
	pkg.WriteJSON(w, WorkoutsResponse{Today: h.service.Today(), Workouts: m}, http.StatusOK)
}

func (h *Handler) handleGetDay(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.journal.getday")
	defer span.End()

	userID, ok := userFromRequest(w, r)
	if !ok {
		return
	}

	date := mux.Vars(r)["date"]
	day, _, err := h.service.Day(ctx, userID, date)
	if err != nil {
		writeError(w, "get day", userID, err)
		return
	}
	h.writeDay(w, date, day)
}

type SaveDayRequest struct {
	Entries []workouts.WorkoutEntry `json:"entries"`
	PB      bool                    `json:"pb"`
}

func (h *Handler) handleSaveDay(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.journal.saveday")
	defer span.End()

	userID, ok := userFromRequest(w, r)
	if !ok {
		return
	}

	var req SaveDayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "error, invalid day", http.StatusBadRequest)
		return
	}

	date := mux.Vars(r)["date"]
	day, err := h.service.SaveDay(ctx, userID, date, req.Entries, req.PB)
	if err != nil {
		writeError(w, "save day", userID, err)
		return
	}
	h.writeDay(w, date, day)
}

func (h *Handler) handleClearDay(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.journal.clearday")
	defer span.End()

	userID, ok := userFromRequest(w, r)
	if !ok {
		return
	}

	existed, err := h.service.ClearDay(ctx, userID, mux.Vars(r)["date"])
	if err != nil {
		writeError(w, "clear day", userID, err)
		return
	}
	if !existed {
		pkg.WriteTextResponseOK(w, "nothing to clear")
		return
	}
	pkg.WriteTextResponseOK(w, "cleared")
}

func (h *Handler) handleTogglePB(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.journal.togglepb")
	defer span.End()

	userID, ok := userFromRequest(w, r)
	if !ok {
		return
	}

	pb, err := h.service.TogglePB(ctx, userID, mux.Vars(r)["date"])
	if err != nil {
		writeError(w, "toggle pb", userID, err)
		return
	}
	pkg.WriteJSON(w, map[string]bool{"pb": pb}, http.StatusOK)
}

type MoveEntryRequest struct {
	From int `json:"from"`
	To   int `json:"to"`
}

func (h *Handler) handleMoveEntry(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.journal.moveentry")
	defer span.End()

	userID, ok := userFromRequest(w, r)
	if !ok {
		return
	}

	var req MoveEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "error, invalid move", http.StatusBadRequest)
		return
	}

	date := mux.Vars(r)["date"]
	day, err := h.service.MoveEntry(ctx, userID, date, req.From, req.To)
	if err != nil {
		writeError(w, "move entry", userID, err)
		return
	}
	h.writeDay(w, date, day)
}

func (h *Handler) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.journal.deleteentry")
	defer span.End()

	userID, ok := userFromRequest(w, r)
	if !ok {
		return
	}

	vars := mux.Vars(r)
	day, err := h.service.DeleteEntry(ctx, userID, vars["date"], vars["entry"])
	if err != nil {
		writeError(w, "delete entry", userID, err)
		return
	}
	h.writeDay(w, vars["date"], day)
}

func (h *Handler) handleRemoveLegacyImage(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.journal.removelegacyimage")
	defer span.End()

	userID, ok := userFromRequest(w, r)
	if !ok {
		return
	}

	date := mux.Vars(r)["date"]
	day, err := h.service.RemoveLegacyImage(ctx, userID, date)
	if err != nil {
		writeError(w, "remove image", userID, err)
		return
	}
	h.writeDay(w, date, day)
}

type StructuredResponse struct {
	Workout  *structured.Workout `json:"workout"`
	Rendered string              `json:"rendered"`
}

func (h *Handler) handleGetStructured(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.journal.getstructured")
	defer span.End()

	userID, ok := userFromRequest(w, r)
	if !ok {
		return
	}

	vars := mux.Vars(r)
	sw, err := h.service.Structured(ctx, userID, vars["date"], vars["entry"])
	if err != nil {
		writeError(w, "get structured", userID, err)
		return
	}
	pkg.WriteJSON(w, StructuredResponse{Workout: sw, Rendered: structured.Render(*sw)}, http.StatusOK)
}

func (h *Handler) handleUpsertStructured(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.journal.upsertstructured")
	defer span.End()

	userID, ok := userFromRequest(w, r)
	if !ok {
		return
	}

	var sw structured.Workout
	if err := json.NewDecoder(r.Body).Decode(&sw); err != nil {
		http.Error(w, "error, invalid structured workout", http.StatusBadRequest)
		return
	}

	vars := mux.Vars(r)
	day, err := h.service.UpsertStructured(ctx, userID, vars["date"], vars["entry"], sw)
	if err != nil {
		writeError(w, "upsert structured", userID, err)
		return
	}
	h.writeDay(w, vars["date"], day)
}

func (h *Handler) handleRemoveStructured(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.journal.removestructured")
	defer span.End()

	userID, ok := userFromRequest(w, r)
	if !ok {
		return
	}

	vars := mux.Vars(r)
	day, err := h.service.RemoveStructured(ctx, userID, vars["date"], vars["entry"])
	if err != nil {
		writeError(w, "remove structured", userID, err)
		return
	}
	h.writeDay(w, vars["date"], day)
}

func optionalInt(v string) *int {
	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		return &n
	}
	return nil
}

func optionalFloat(v string) *float64 {
	if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
		return &f
	}
	return nil
}

func (h *Handler) handleAttachMedia(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.journal.attachmedia")
	defer span.End()

	userID, ok := userFromRequest(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		log.Tracef("attach media, parse form: %s", err)
		http.Error(w, "error, invalid upload", http.StatusBadRequest)
		return
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "error, file missing", http.StatusBadRequest)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		contentType = mediaType
	}
	if contentType == "" || contentType == "application/octet-stream" {
		sniff := make([]byte, 512)
		n, _ := io.ReadFull(file, sniff)
		contentType = http.DetectContentType(sniff[:n])
		if _, err := file.Seek(0, io.SeekStart); err != nil {
			http.Error(w, "error, invalid upload", http.StatusBadRequest)
			return
		}
	}
	span.SetAttributes(attribute.String("content.type", contentType))
	span.SetAttributes(attribute.Int64("size", header.Size))

	vars := mux.Vars(r)
	attached, err := h.service.AttachMedia(ctx, userID, vars["date"], vars["entry"], MediaUpload{
		Body:        file,
		Size:        header.Size,
		ContentType: contentType,
		DurationSec: optionalFloat(r.FormValue("durationSec")),
		Width:       optionalInt(r.FormValue("width")),
		Height:      optionalInt(r.FormValue("height")),
	})
	if err != nil {
		writeError(w, "attach media", userID, err)
		return
	}
	pkg.WriteJSON(w, attached, http.StatusCreated)
}

func (h *Handler) handleRemoveMedia(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.journal.removemedia")
	defer span.End()

	userID, ok := userFromRequest(w, r)
	if !ok {
		return
	}

	vars := mux.Vars(r)
	day, err := h.service.RemoveMedia(ctx, userID, vars["date"], vars["entry"])
	if err != nil {
		writeError(w, "remove media", userID, err)
		return
	}
	h.writeDay(w, vars["date"], day)
}

func (h *Handler) handleMediaURL(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.journal.mediaurl")
	defer span.End()

	userID, ok := userFromRequest(w, r)
	if !ok {
		return
	}

	path := r.URL.Query().Get("path")
	if path == "" {
		http.Error(w, "error, path missing", http.StatusBadRequest)
		return
	}

	url, err := h.service.MediaURL(ctx, userID, path)
	if err != nil {
		writeError(w, "media url", userID, err)
		return
	}
	pkg.WriteJSON(w, map[string]string{"url": url}, http.StatusOK)
}

func (h *Handler) handleMediaRaw(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.journal.mediaraw")
	defer span.End()

	userID, ok := userFromRequest(w, r)
	if !ok {
		return
	}
	if h.opener == nil {
		http.Error(w, "error, media not served here", http.StatusNotFound)
		return
	}

	key := strings.TrimPrefix(r.URL.Path, "/media/raw/")
	if !media.OwnedBy(key, userID) {
		http.Error(w, "no can do", http.StatusForbidden)
		return
	}

	file, err := h.opener.Open(ctx, key)
	if err != nil {
		writeError(w, "open media", userID, err)
		return
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		writeError(w, "stat media", userID, err)
		return
	}

	w.Header().Set("Cache-Control", "private, max-age=3600")
	http.ServeContent(w, r, filepath.Base(key), stat.ModTime(), file)
}

func (h *Handler) handleStreaks(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.journal.streaks")
	defer span.End()

	userID, ok := userFromRequest(w, r)
	if !ok {
		return
	}

	stats, err := h.service.Streaks(ctx, userID)
	if err != nil {
		writeError(w, "streaks", userID, err)
		return
	}
	pkg.WriteJSON(w, stats, http.StatusOK)
}

func (h *Handler) handleCalendar(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.journal.calendar")
	defer span.End()

	userID, ok := userFromRequest(w, r)
	if !ok {
		return
	}

	vars := mux.Vars(r)
	year, _ := strconv.Atoi(vars["year"])
	month, _ := strconv.Atoi(vars["month"])
	if month < 1 || month > 12 {
		http.Error(w, "error, invalid month", http.StatusBadRequest)
		return
	}

	query := r.URL.Query()
	weekStart := query.Get("weekStart")
	if weekStart != "" && !workouts.ValidWeekStart(weekStart) {
		http.Error(w, "error, invalid week start", http.StatusBadRequest)
		return
	}

	view, err := h.service.Calendar(ctx, userID, CalendarParams{
		Year:      year,
		Month:     time.Month(month),
		WeekStart: weekStart,
		Scope:     query.Get("scope"),
		Selected:  query.Get("selected"),
	})
	if err != nil {
		writeError(w, "calendar", userID, err)
		return
	}
	pkg.WriteJSON(w, view, http.StatusOK)
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.journal.export")
	defer span.End()

	userID, ok := userFromRequest(w, r)
	if !ok {
		return
	}

	csv, err := h.service.ExportCSV(ctx, userID)
	if err != nil {
		writeError(w, "export csv", userID, err)
		return
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", csvio.FileName))
	pkg.WriteResponse(w, pkg.ContentType.CSV, csv, http.StatusOK)
}

// handleImport takes the CSV either as the raw body or as a "file" form part.
func (h *Handler) handleImport(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.journal.import")
	defer span.End()

	userID, ok := userFromRequest(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)
	var body io.Reader = r.Body
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, _, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "error, file missing", http.StatusBadRequest)
			return
		}
		defer file.Close()
		body = file
	}

	text, err := io.ReadAll(body)
	if err != nil {
		http.Error(w, "error, read csv", http.StatusBadRequest)
		return
	}

	report, err := h.service.ImportCSV(ctx, userID, string(text), boolParam(r, "confirm"))
	if err != nil {
		if errors.Is(err, ErrConfirmationRequired) {
			// the client shows how much would be overwritten
			pkg.WriteJSON(w, report, http.StatusPreconditionRequired)
			return
		}
		writeError(w, "import csv", userID, err)
		return
	}
	span.SetAttributes(attribute.Int("imported", report.Imported))
	pkg.WriteJSON(w, report, http.StatusOK)
}

func (h *Handler) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.journal.getsettings")
	defer span.End()

	userID, ok := userFromRequest(w, r)
	if !ok {
		return
	}

	settings, err := h.service.Settings(ctx, userID)
	if err != nil {
		writeError(w, "get settings", userID, err)
		return
	}
	pkg.WriteJSON(w, settings, http.StatusOK)
}

func (h *Handler) handleSaveSettings(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.journal.savesettings")
	defer span.End()

	userID, ok := userFromRequest(w, r)
	if !ok {
		return
	}

	var settings workouts.Settings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		http.Error(w, "error, invalid settings", http.StatusBadRequest)
		return
	}

	if err := h.service.SaveSettings(ctx, userID, settings); err != nil {
		writeError(w, "save settings", userID, err)
		return
	}
	pkg.WriteJSON(w, settings, http.StatusOK)
}

func (h *Handler) handleBackupInfo(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.journal.backupinfo")
	defer span.End()

	userID, ok := userFromRequest(w, r)
	if !ok {
		return
	}

	b, err := h.service.BackupInfo(ctx, userID)
	if err != nil {
		writeError(w, "backup info", userID, err)
		return
	}
	pkg.WriteJSON(w, b, http.StatusOK)
}

func (h *Handler) handleBackupNow(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.journal.backupnow")
	defer span.End()

	userID, ok := userFromRequest(w, r)
	if !ok {
		return
	}

	b, err := h.service.BackupNow(ctx, userID)
	if err != nil {
		writeError(w, "backup now", userID, err)
		return
	}
	pkg.WriteJSON(w, b, http.StatusOK)
}

func (h *Handler) handleRestore(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.journal.restore")
	defer span.End()

	userID, ok := userFromRequest(w, r)
	if !ok {
		return
	}

	var req struct {
		Confirm bool `json:"confirm"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)

	m, err := h.service.Restore(ctx, userID, req.Confirm)
	if err != nil {
		writeError(w, "restore backup", userID, err)
		return
	}
	pkg.WriteJSON(w, WorkoutsResponse{Today: h.service.Today(), Workouts: m}, http.StatusOK)
}
