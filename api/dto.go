/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication, decoupling the internal
  domain model from the external contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Request types carry validate tags checked by go-playground/validator in
  the handlers; domain rules (closed days, positive values) stay in the
  ledger core.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"github.com/shopspring/decimal"

	"github.com/academia/caixa/ledger"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// LoginRequest carries credentials.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ChangePasswordRequest replaces the acting user's password.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=4"`
}

// AddIncomeRequest records an inflow on a date.
type AddIncomeRequest struct {
	Customer string          `json:"customer"`
	Type     string          `json:"type" validate:"required"`
	Method   string          `json:"method"`
	Value    decimal.Decimal `json:"value" validate:"required"`
	Receiver string          `json:"receiver"`
	Note     string          `json:"note"`
}

// AddExpenseRequest records an outflow on a date.
type AddExpenseRequest struct {
	Category    string          `json:"category" validate:"required"`
	Description string          `json:"description" validate:"required"`
	Method      string          `json:"method"`
	Value       decimal.Decimal `json:"value" validate:"required"`
}

// QuickDailyRequest is the one-tap daily-pass income.
type QuickDailyRequest struct {
	Value decimal.Decimal `json:"value" validate:"required"`
}

// CreateUserRequest adds an account (admin only).
type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=4"`
	Role     string `json:"role" validate:"required"`
}

// ConfigRequest updates register branding.
type ConfigRequest struct {
	Name string `json:"name"`
	Logo string `json:"logo"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// LoginResponse carries the session token and its actor.
type LoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// IncomeDTO is one inflow in API responses.
type IncomeDTO struct {
	ID       string          `json:"id"`
	Date     string          `json:"date"`
	Time     string          `json:"time"`
	Customer string          `json:"customer,omitempty"`
	Type     string          `json:"type"`
	Method   string          `json:"method"`
	Value    decimal.Decimal `json:"value"`
	Receiver string          `json:"receiver"`
	Note     string          `json:"note,omitempty"`
}

// ExpenseDTO is one outflow in API responses.
type ExpenseDTO struct {
	ID          string          `json:"id"`
	Date        string          `json:"date"`
	Time        string          `json:"time"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Method      string          `json:"method"`
	Value       decimal.Decimal `json:"value"`
}

// MethodTotalsDTO is one per-method bucket set.
type MethodTotalsDTO struct {
	Cash decimal.Decimal `json:"cash"`
	Pix  decimal.Decimal `json:"pix"`
	Card decimal.Decimal `json:"card"`
}

// TotalsDTO mirrors ledger.Totals.
type TotalsDTO struct {
	InTotal  decimal.Decimal `json:"in_total"`
	OutTotal decimal.Decimal `json:"out_total"`
	Balance  decimal.Decimal `json:"balance"`
	InBy     MethodTotalsDTO `json:"in_by"`
	OutBy    MethodTotalsDTO `json:"out_by"`
}

// DayDTO is the full view of one date: movements, totals, closure status.
type DayDTO struct {
	Date     string       `json:"date"`
	In       []IncomeDTO  `json:"in"`
	Out      []ExpenseDTO `json:"out"`
	Totals   TotalsDTO    `json:"totals"`
	Closed   bool         `json:"closed"`
	ClosedAt string       `json:"closed_at,omitempty"`
	ClosedBy string       `json:"closed_by,omitempty"`
}

// ClosureDTO is one entry of the closure log.
type ClosureDTO struct {
	Date     string    `json:"date"`
	Totals   TotalsDTO `json:"totals"`
	ClosedAt string    `json:"closed_at"`
	ClosedBy string    `json:"closed_by"`
}

// RecordDTO is one flattened history record.
type RecordDTO struct {
	Kind     string          `json:"kind"`
	Date     string          `json:"date"`
	Detail   string          `json:"detail"`
	Method   string          `json:"method"`
	Value    decimal.Decimal `json:"value"`
	Operator string          `json:"operator,omitempty"`
}

// HistoryResponse is a filtered range plus its aggregate totals.
type HistoryResponse struct {
	From     string          `json:"from"`
	To       string          `json:"to"`
	Records  []RecordDTO     `json:"records"`
	InTotal  decimal.Decimal `json:"in_total"`
	OutTotal decimal.Decimal `json:"out_total"`
	Balance  decimal.Decimal `json:"balance"`
	Count    int             `json:"count"`
}

// CustomerHistoryResponse is one customer's income history plus running total.
type CustomerHistoryResponse struct {
	Customer string              `json:"customer"`
	Records  []CustomerRecordDTO `json:"records"`
	Total    decimal.Decimal     `json:"total"`
}

// CustomerRecordDTO is one entry of a customer history.
type CustomerRecordDTO struct {
	Date     string          `json:"date"`
	Time     string          `json:"time"`
	Type     string          `json:"type"`
	Method   string          `json:"method"`
	Value    decimal.Decimal `json:"value"`
	Receiver string          `json:"receiver"`
	Note     string          `json:"note,omitempty"`
}

// UserDTO is one account, without credentials.
type UserDTO struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// ConfigDTO is the register branding.
type ConfigDTO struct {
	Name string `json:"name"`
	Logo string `json:"logo"`
}

// =============================================================================
// MAPPERS
// =============================================================================

func toIncomeDTO(in ledger.Income) IncomeDTO {
	return IncomeDTO{
		ID:       string(in.ID),
		Date:     in.Date,
		Time:     in.Time,
		Customer: in.Customer,
		Type:     in.Type,
		Method:   string(in.Method),
		Value:    in.Value,
		Receiver: in.Receiver,
		Note:     in.Note,
	}
}

func toExpenseDTO(out ledger.Expense) ExpenseDTO {
	return ExpenseDTO{
		ID:          string(out.ID),
		Date:        out.Date,
		Time:        out.Time,
		Category:    out.Category,
		Description: out.Description,
		Method:      string(out.Method),
		Value:       out.Value,
	}
}

func toTotalsDTO(t ledger.Totals) TotalsDTO {
	return TotalsDTO{
		InTotal:  t.InTotal,
		OutTotal: t.OutTotal,
		Balance:  t.Balance,
		InBy:     MethodTotalsDTO{Cash: t.InBy.Cash, Pix: t.InBy.Pix, Card: t.InBy.Card},
		OutBy:    MethodTotalsDTO{Cash: t.OutBy.Cash, Pix: t.OutBy.Pix, Card: t.OutBy.Card},
	}
}

func toDayDTO(day ledger.DayLedger) DayDTO {
	dto := DayDTO{
		Date:     day.Date,
		In:       make([]IncomeDTO, len(day.In)),
		Out:      make([]ExpenseDTO, len(day.Out)),
		Totals:   toTotalsDTO(ledger.TotalsForDay(&day)),
		Closed:   day.Closed,
		ClosedAt: day.ClosedAt,
		ClosedBy: day.ClosedBy,
	}
	for i, in := range day.In {
		dto.In[i] = toIncomeDTO(in)
	}
	for i, out := range day.Out {
		dto.Out[i] = toExpenseDTO(out)
	}
	return dto
}

func toClosureDTO(rec ledger.ClosureRecord) ClosureDTO {
	return ClosureDTO{
		Date:     rec.Date,
		Totals:   toTotalsDTO(rec.Totals),
		ClosedAt: rec.ClosedAt,
		ClosedBy: rec.ClosedBy,
	}
}

func toRecordDTOs(records []ledger.RecordView) []RecordDTO {
	out := make([]RecordDTO, len(records))
	for i, rec := range records {
		out[i] = RecordDTO{
			Kind:     string(rec.Kind),
			Date:     rec.Date,
			Detail:   rec.Detail,
			Method:   string(rec.Method),
			Value:    rec.Value,
			Operator: rec.Operator,
		}
	}
	return out
}
