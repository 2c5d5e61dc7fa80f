/*
handlers.go - HTTP handlers for the register

PURPOSE:
  Exposes the ledger core, the session collaborator, and the report exporter
  over REST. Handlers parse and validate input, delegate to domain logic,
  and translate domain errors to HTTP statuses.

ENDPOINTS:
  Session:
    POST   /api/login                      Authenticate, get a token
    POST   /api/password                   Change own password

  Day ledger:
    GET    /api/days/today                 Current day view
    GET    /api/days/{date}                One day view
    POST   /api/days/{date}/income         Record an inflow
    POST   /api/days/{date}/income/daily   Quick daily pass
    POST   /api/days/{date}/expenses       Record an outflow
    DELETE /api/days/{date}/movements/{kind}/{id}
    POST   /api/days/{date}/close          Close the day
    GET    /api/closures                   Closure log

  Projections:
    GET    /api/history?from&to&filter     Range query
    GET    /api/customers                  Distinct customers
    GET    /api/customers/{name}           One customer's history

  Reports (XLSX):
    GET    /api/reports/day/{date}
    GET    /api/reports/period?from&to
    GET    /api/reports/month
    GET    /api/reports/customer/{name}

  Admin:
    GET    /api/users                      List accounts
    POST   /api/users                      Create account (admin)
    DELETE /api/users/{username}           Remove account (admin)
    GET    /api/config
    PUT    /api/config

ERROR HANDLING:
  Domain errors map to statuses in one place (writeDomainError):
  - 400: validation, malformed ranges
  - 401/403: authentication / role gating (middleware.go)
  - 404: missing records
  - 409: closed-day and double-closure rejections
  - 500: anything else

SEE ALSO:
  - dto.go: request/response shapes
  - middleware.go: auth and role gating
  - server.go: router setup
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/academia/caixa/export"
	"github.com/academia/caixa/ledger"
	"github.com/academia/caixa/session"
)

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Register *ledger.Register
	Sessions *session.Manager
	Exports  *export.Service

	validate *validator.Validate
}

// NewHandler creates a handler over a ready register and session manager.
func NewHandler(reg *ledger.Register, sessions *session.Manager, exports *export.Service) *Handler {
	return &Handler{
		Register: reg,
		Sessions: sessions,
		Exports:  exports,
		validate: validator.New(),
	}
}

// =============================================================================
// SESSION HANDLERS
// =============================================================================

// Login authenticates and returns a bearer token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.decode(w, r, &req) {
		return
	}

	actor, token, err := h.Sessions.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, session.ErrBadCredentials) {
			writeError(w, http.StatusUnauthorized, "Invalid username or password", nil)
			return
		}
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{
		Token:    token,
		Username: actor.Username,
		Role:     string(actor.Role),
	})
}

// ChangePassword replaces the acting user's password.
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req ChangePasswordRequest
	if !h.decode(w, r, &req) {
		return
	}

	actor := actorFrom(r.Context())
	if err := h.Sessions.ChangePassword(r.Context(), actor, req.OldPassword, req.NewPassword); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"changed": true})
}

// =============================================================================
// DAY HANDLERS
// =============================================================================

// GetToday returns the current day's view.
func (h *Handler) GetToday(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toDayDTO(h.Register.Day(h.Register.Today())))
}

// GetDay returns one date's view, creating the day lazily.
func (h *Handler) GetDay(w http.ResponseWriter, r *http.Request) {
	date, ok := h.datePath(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toDayDTO(h.Register.Day(date)))
}

// AddIncome records an inflow.
func (h *Handler) AddIncome(w http.ResponseWriter, r *http.Request) {
	date, ok := h.datePath(w, r)
	if !ok {
		return
	}
	var req AddIncomeRequest
	if !h.decode(w, r, &req) {
		return
	}

	mv, err := h.Register.AddIncome(r.Context(), date, ledger.IncomeInput{
		Customer: req.Customer,
		Type:     req.Type,
		Method:   ledger.ParsePaymentMethod(req.Method),
		Value:    req.Value,
		Receiver: req.Receiver,
		Note:     req.Note,
	}, actorFrom(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toIncomeDTO(mv))
}

// QuickDaily records a one-tap daily pass: cash, no customer.
func (h *Handler) QuickDaily(w http.ResponseWriter, r *http.Request) {
	date, ok := h.datePath(w, r)
	if !ok {
		return
	}
	var req QuickDailyRequest
	if !h.decode(w, r, &req) {
		return
	}

	mv, err := h.Register.AddIncome(r.Context(), date, ledger.IncomeInput{
		Type:   "Diária",
		Method: ledger.PayCash,
		Value:  req.Value,
		Note:   "Diária rápida",
	}, actorFrom(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toIncomeDTO(mv))
}

// AddExpense records an outflow.
func (h *Handler) AddExpense(w http.ResponseWriter, r *http.Request) {
	date, ok := h.datePath(w, r)
	if !ok {
		return
	}
	var req AddExpenseRequest
	if !h.decode(w, r, &req) {
		return
	}

	mv, err := h.Register.AddExpense(r.Context(), date, ledger.ExpenseInput{
		Category:    req.Category,
		Description: req.Description,
		Method:      ledger.ParsePaymentMethod(req.Method),
		Value:       req.Value,
	}, actorFrom(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toExpenseDTO(mv))
}

// DeleteMovement removes one movement from an open day.
func (h *Handler) DeleteMovement(w http.ResponseWriter, r *http.Request) {
	date, ok := h.datePath(w, r)
	if !ok {
		return
	}
	kind := ledger.Kind(chi.URLParam(r, "kind"))
	id := ledger.MovementID(chi.URLParam(r, "id"))

	removed, err := h.Register.DeleteMovement(r.Context(), date, kind, id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"removed": removed})
}

// CloseDay locks a date and returns the closure snapshot.
func (h *Handler) CloseDay(w http.ResponseWriter, r *http.Request) {
	date, ok := h.datePath(w, r)
	if !ok {
		return
	}

	rec, err := h.Register.CloseDay(r.Context(), date, actorFrom(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toClosureDTO(rec))
}

// ListClosures returns the closure log, newest first.
func (h *Handler) ListClosures(w http.ResponseWriter, r *http.Request) {
	recs := h.Register.Closures()
	dtos := make([]ClosureDTO, len(recs))
	for i, rec := range recs {
		dtos[i] = toClosureDTO(rec)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// PROJECTION HANDLERS
// =============================================================================

// GetHistory runs a range query with an optional kind filter.
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	filter := ledger.RangeFilter(r.URL.Query().Get("filter"))

	records, err := h.Register.MovementsInRange(from, to, filter)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	totals := ledger.RangeTotalsOf(records)

	writeJSON(w, http.StatusOK, HistoryResponse{
		From:     from,
		To:       to,
		Records:  toRecordDTOs(records),
		InTotal:  totals.InTotal,
		OutTotal: totals.OutTotal,
		Balance:  totals.Balance,
		Count:    totals.Count,
	})
}

// ListCustomers returns the distinct customer names.
func (h *Handler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Register.ListCustomers())
}

// GetCustomerHistory returns one customer's income history.
func (h *Handler) GetCustomerHistory(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	records, total := h.Register.CustomerHistory(name)

	dtos := make([]CustomerRecordDTO, len(records))
	for i, rec := range records {
		dtos[i] = CustomerRecordDTO{
			Date:     rec.Date,
			Time:     rec.Time,
			Type:     rec.Type,
			Method:   string(rec.Method),
			Value:    rec.Value,
			Receiver: rec.Receiver,
			Note:     rec.Note,
		}
	}
	writeJSON(w, http.StatusOK, CustomerHistoryResponse{
		Customer: name,
		Records:  dtos,
		Total:    total,
	})
}

// =============================================================================
// REPORT HANDLERS
// =============================================================================

// ExportDay streams the day report workbook.
func (h *Handler) ExportDay(w http.ResponseWriter, r *http.Request) {
	date, ok := h.datePath(w, r)
	if !ok {
		return
	}
	data, err := h.Exports.DayReport(date)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeWorkbook(w, fmt.Sprintf("caixa_%s.xlsx", date), data)
}

// ExportPeriod streams the period report workbook.
func (h *Handler) ExportPeriod(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")

	data, err := h.Exports.PeriodReport(from, to, "")
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeWorkbook(w, fmt.Sprintf("relatorio_%s_a_%s.xlsx", from, to), data)
}

// ExportMonth streams the running-month report workbook.
func (h *Handler) ExportMonth(w http.ResponseWriter, r *http.Request) {
	data, err := h.Exports.MonthReport()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeWorkbook(w, "relatorio_mes.xlsx", data)
}

// ExportCustomer streams one customer's history workbook.
func (h *Handler) ExportCustomer(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	data, err := h.Exports.CustomerReport(name)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeWorkbook(w, fmt.Sprintf("aluno_%s.xlsx", name), data)
}

// =============================================================================
// ADMIN HANDLERS
// =============================================================================

// ListUsers returns all accounts without credentials.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users := h.Sessions.Users()
	dtos := make([]UserDTO, len(users))
	for i, u := range users {
		dtos[i] = UserDTO{Username: u.Username, Role: string(u.Role)}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateUser adds an account. Admin only (enforced in middleware).
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if !h.decode(w, r, &req) {
		return
	}

	u, err := h.Sessions.CreateUser(r.Context(), req.Username, req.Password, ledger.Role(req.Role))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, UserDTO{Username: u.Username, Role: string(u.Role)})
}

// DeleteUser removes an account. Admin only.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	if err := h.Sessions.DeleteUser(r.Context(), username); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": username})
}

// GetConfig returns the register branding.
func (h *Handler) GetConfig(w http.ResponseWriter, r *http.Request) {
	cfg := h.Register.Config()
	writeJSON(w, http.StatusOK, ConfigDTO{Name: cfg.Name, Logo: cfg.Logo})
}

// SetConfig updates the register branding.
func (h *Handler) SetConfig(w http.ResponseWriter, r *http.Request) {
	var req ConfigRequest
	if !h.decode(w, r, &req) {
		return
	}

	cfg, err := h.Register.SetConfig(r.Context(), ledger.Config{Name: req.Name, Logo: req.Logo})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ConfigDTO{Name: cfg.Name, Logo: cfg.Logo})
}

// =============================================================================
// HELPERS
// =============================================================================

// decode parses and validates a JSON request body. Writes the 400 itself
// and reports false when the body is unusable.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body", err)
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", err)
		return false
	}
	return true
}

// datePath reads and validates the {date} path parameter.
func (h *Handler) datePath(w http.ResponseWriter, r *http.Request) (string, bool) {
	date := chi.URLParam(r, "date")
	if _, err := ledger.ParseDate(date); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD", err)
		return "", false
	}
	return date, true
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps core errors onto HTTP statuses in one place.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledger.ErrDayClosed), errors.Is(err, ledger.ErrAlreadyClosed):
		writeError(w, http.StatusConflict, "Day is closed", err)
	case errors.Is(err, ledger.ErrValidation), errors.Is(err, ledger.ErrInvalidRange):
		writeError(w, http.StatusBadRequest, "Invalid request", err)
	case errors.Is(err, ledger.ErrNotFound):
		writeError(w, http.StatusNotFound, "Not found", err)
	default:
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}

func writeWorkbook(w http.ResponseWriter, filename string, data []byte) {
	w.Header().Set("Content-Type",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
