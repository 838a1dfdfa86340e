package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"summerschool.lol/lolcoin/internal/application/usecase"
	"summerschool.lol/lolcoin/internal/domain/entity"
	"summerschool.lol/lolcoin/internal/domain/port"
	"summerschool.lol/lolcoin/internal/infrastructure/export"
	"summerschool.lol/lolcoin/internal/infrastructure/logger"
)

const (
	maxBodyBytes             = 64 << 10
	defaultNotificationLimit = 20
)

// Dashboard is what the operator API drives
type Dashboard interface {
	Rows(ctx context.Context, filter usecase.RowFilter) ([]usecase.Row, error)
	Dialog(ctx context.Context) (usecase.DialogView, error)
	OpenTransfer(ctx context.Context, key string) error
	UpdateTransfer(ctx context.Context, field entity.DraftField, value string) error
	SubmitTransfer(ctx context.Context) (<-chan struct{}, error)
	CloseTransfer(ctx context.Context) error
}

// Handler holds HTTP handlers and their dependencies
type Handler struct {
	dashboard Dashboard
	feed      port.NotificationFeed
	metrics   http.Handler
	logger    logger.Logger
}

// NewHandler creates a new HTTP handler. metrics may be nil.
func NewHandler(
	dashboard Dashboard,
	feed port.NotificationFeed,
	metrics http.Handler,
	logger logger.Logger,
) *Handler {
	return &Handler{
		dashboard: dashboard,
		feed:      feed,
		metrics:   metrics,
		logger:    logger,
	}
}

type receiverResponse struct {
	Key       string `json:"key"`
	FullName  string `json:"fullName"`
	AccountID string `json:"accountId"`
}

type dialogResponse struct {
	Visible       bool              `json:"visible"`
	State         string            `json:"state"`
	Receiver      *receiverResponse `json:"receiver,omitempty"`
	Amount        string            `json:"amount"`
	SeedPhraseSet bool              `json:"seedPhraseSet"`
	Submitted     bool              `json:"submitted"`
	FieldErrors   map[string]string `json:"fieldErrors,omitempty"`
}

type notificationResponse struct {
	Severity string       `json:"severity"`
	Summary  string       `json:"summary"`
	Detail   string       `json:"detail"`
	Link     *entity.Link `json:"link,omitempty"`
	LifeMs   int64        `json:"lifeMs"`
	At       time.Time    `json:"at"`
}

type openTransferRequest struct {
	Account string `json:"account"`
}

type updateTransferRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// HandleLedger handles GET /ledger requests
func (h *Handler) HandleLedger(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestLogger := loggerFrom(ctx, h.logger)

	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	rows, err := h.dashboard.Rows(ctx, rowFilter(r))
	if err != nil {
		requestLogger.LogError(ctx, "Failed to render ledger", err)
		writeErr(w, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// HandleLedgerCSV handles GET /ledger.csv requests
func (h *Handler) HandleLedgerCSV(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestLogger := loggerFrom(ctx, h.logger)

	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	rows, err := h.dashboard.Rows(ctx, rowFilter(r))
	if err != nil {
		requestLogger.LogError(ctx, "Failed to render ledger", err)
		writeErr(w, err, statusFor(err))
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="lolcoin.csv"`)
	w.WriteHeader(http.StatusOK)
	if err := export.CSV(w, rows); err != nil {
		requestLogger.LogError(ctx, "Failed to write CSV export", err)
		return
	}
	requestLogger.LogInfo(ctx, "Ledger exported", "rows", len(rows))
}

// HandleTransfer handles GET, POST, PATCH and DELETE /transfer requests
func (h *Handler) HandleTransfer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestLogger := loggerFrom(ctx, h.logger)

	var err error
	switch r.Method {
	case http.MethodGet:
	case http.MethodPost:
		var req openTransferRequest
		if err := decodeBody(r, &req); err != nil {
			writeErr(w, err, http.StatusBadRequest)
			return
		}
		err = h.dashboard.OpenTransfer(ctx, req.Account)
	case http.MethodPatch:
		var req updateTransferRequest
		if err := decodeBody(r, &req); err != nil {
			writeErr(w, err, http.StatusBadRequest)
			return
		}
		err = h.dashboard.UpdateTransfer(ctx, entity.DraftField(req.Field), req.Value)
	case http.MethodDelete:
		err = h.dashboard.CloseTransfer(ctx)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err != nil {
		requestLogger.LogWarning(ctx, "Transfer dialog command rejected",
			"method", r.Method,
			"error", err.Error())
		writeErr(w, err, statusFor(err))
		return
	}

	h.writeDialog(ctx, w, http.StatusOK)
}

// HandleSubmitTransfer handles POST /transfer/submit requests
func (h *Handler) HandleSubmitTransfer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestLogger := loggerFrom(ctx, h.logger)

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if _, err := h.dashboard.SubmitTransfer(ctx); err != nil {
		var verrs entity.ValidationErrors
		if errors.As(err, &verrs) {
			writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
				Error:       "invalid transfer draft",
				FieldErrors: fieldErrorMap(verrs),
			})
			return
		}
		requestLogger.LogWarning(ctx, "Transfer submission rejected", "error", err.Error())
		writeErr(w, err, statusFor(err))
		return
	}

	requestLogger.LogInfo(ctx, "Transfer dispatched")
	h.writeDialog(ctx, w, http.StatusAccepted)
}

// HandleNotifications handles GET /notifications requests
func (h *Handler) HandleNotifications(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := defaultNotificationLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			http.Error(w, "Invalid limit parameter", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	recent := h.feed.Recent(r.Context(), limit)
	out := make([]notificationResponse, 0, len(recent))
	for _, n := range recent {
		out = append(out, notificationResponse{
			Severity: string(n.Severity),
			Summary:  n.Summary,
			Detail:   n.Detail,
			Link:     n.Link,
			LifeMs:   n.Duration.Milliseconds(),
			At:       n.At,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleHealth handles GET /health requests
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) writeDialog(ctx context.Context, w http.ResponseWriter, code int) {
	view, err := h.dashboard.Dialog(ctx)
	if err != nil {
		writeErr(w, err, statusFor(err))
		return
	}

	resp := dialogResponse{
		Visible:       view.Visible,
		State:         view.State.String(),
		Amount:        view.Draft.Amount.String(),
		SeedPhraseSet: view.Draft.SeedPhrase != "",
		Submitted:     view.Draft.Submitted,
		FieldErrors:   fieldErrorMap(view.FieldErrors),
	}
	if view.Visible {
		resp.Receiver = &receiverResponse{
			Key:       view.Draft.Receiver.Key(),
			FullName:  view.Draft.Receiver.FullName,
			AccountID: view.Draft.Receiver.AccountID,
		}
	}
	writeJSON(w, code, resp)
}

func rowFilter(r *http.Request) usecase.RowFilter {
	q := r.URL.Query()
	return usecase.RowFilter{
		FullName:    q.Get("name"),
		SchoolGrade: q.Get("grade"),
	}
}

func fieldErrorMap(errs entity.ValidationErrors) map[string]string {
	if len(errs) == 0 {
		return nil
	}
	out := make(map[string]string, len(errs))
	for _, e := range errs {
		out[string(e.Field)] = e.Message
	}
	return out
}

func decodeBody(r *http.Request, v any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("failed to read request body: %w", err)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, entity.ErrAccountNotFound):
		return http.StatusNotFound
	case errors.Is(err, entity.ErrSubmissionInFlight), errors.Is(err, entity.ErrNoActiveDraft):
		return http.StatusConflict
	case errors.Is(err, entity.ErrUnknownField), errors.Is(err, entity.ErrInvalidAmount):
		return http.StatusBadRequest
	case errors.Is(err, usecase.ErrControllerStopped),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// SetupRoutes sets up all HTTP routes
func (h *Handler) SetupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// Apply middleware chain
	wrap := func(next http.HandlerFunc) http.HandlerFunc {
		return RequestIDMiddleware(LoggingMiddleware(next, h.logger), h.logger)
	}

	mux.HandleFunc("/ledger", wrap(h.HandleLedger))
	mux.HandleFunc("/ledger.csv", wrap(h.HandleLedgerCSV))
	mux.HandleFunc("/transfer", wrap(h.HandleTransfer))
	mux.HandleFunc("/transfer/submit", wrap(h.HandleSubmitTransfer))
	mux.HandleFunc("/notifications", wrap(h.HandleNotifications))
	mux.HandleFunc("/health", h.HandleHealth)
	if h.metrics != nil {
		mux.Handle("/metrics", h.metrics)
	}

	return mux
}
