/*
Package export renders register projections to XLSX workbooks.

PURPOSE:
  The register's screens offer downloadable reports: the current day, an
  arbitrary period, the running month, and a single customer's history.
  This package consumes only the core's read-only projections (day copies,
  range records, customer histories) and owns all the rendering; the core
  has no knowledge of the workbook format.
*/
package export

import (
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/academia/caixa/ledger"
)

// Service turns register projections into XLSX bytes.
type Service struct {
	reg    *ledger.Register
	logger *slog.Logger
}

func NewService(reg *ledger.Register, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{reg: reg, logger: logger}
}

// =============================================================================
// DAY REPORT
// =============================================================================

// DayReport renders one day: totals block, per-method breakdown, then the
// income and expense tables.
func (s *Service) DayReport(date string) ([]byte, error) {
	if _, err := ledger.ParseDate(date); err != nil {
		return nil, &ledger.InvalidRangeError{From: date, To: date}
	}

	day := s.reg.Day(date)
	totals := ledger.TotalsForDay(&day)
	cfg := s.reg.Config()

	f, sheet := newWorkbook("Dia")

	status := "Aberto"
	if day.Closed {
		status = fmt.Sprintf("Fechado às %s por %s", day.ClosedAt, day.ClosedBy)
	}
	writeRows(f, sheet, 1, [][]any{
		{cfg.Name},
		{fmt.Sprintf("Relatório do Dia: %s", date)},
		{fmt.Sprintf("Status: %s", status)},
		{},
		{"Entradas", cell(totals.InTotal), "Gastos", cell(totals.OutTotal), "Saldo", cell(totals.Balance)},
		{"Entradas por forma", "Espécie", cell(totals.InBy.Cash), "Pix", cell(totals.InBy.Pix), "Cartão", cell(totals.InBy.Card)},
		{"Gastos por forma", "Espécie", cell(totals.OutBy.Cash), "Pix", cell(totals.OutBy.Pix), "Cartão", cell(totals.OutBy.Card)},
	})

	row := 9
	row = writeRows(f, sheet, row, [][]any{
		{"Hora", "Aluno", "Tipo", "Forma", "Valor", "Recebido por", "Obs"},
	})
	for _, in := range day.In {
		row = writeRows(f, sheet, row, [][]any{
			{in.Time, orDash(in.Customer), in.Type, string(in.Method), cell(in.Value), in.Receiver, in.Note},
		})
	}

	row++
	row = writeRows(f, sheet, row, [][]any{
		{"Hora", "Categoria", "Descrição", "Forma", "Valor"},
	})
	for _, out := range day.Out {
		row = writeRows(f, sheet, row, [][]any{
			{out.Time, out.Category, out.Description, string(out.Method), cell(out.Value)},
		})
	}

	s.logger.Info("day report rendered", "date", date, "in", len(day.In), "out", len(day.Out))
	return workbookBytes(f)
}

// =============================================================================
// PERIOD / MONTH REPORTS
// =============================================================================

// PeriodReport renders the flattened movement history between two inclusive
// dates, with range totals in the header.
func (s *Service) PeriodReport(from, to, title string) ([]byte, error) {
	records, err := s.reg.MovementsInRange(from, to, ledger.FilterAll)
	if err != nil {
		return nil, err
	}
	totals := ledger.RangeTotalsOf(records)
	cfg := s.reg.Config()

	if title == "" {
		title = "Relatório do Período"
	}

	f, sheet := newWorkbook("Período")
	writeRows(f, sheet, 1, [][]any{
		{cfg.Name},
		{title},
		{fmt.Sprintf("%s → %s", from, to)},
		{},
		{"Entradas", cell(totals.InTotal), "Gastos", cell(totals.OutTotal), "Saldo", cell(totals.Balance)},
		{fmt.Sprintf("Total de registros: %d", totals.Count)},
		{},
		{"Data", "Tipo", "Detalhe", "Forma", "Valor", "Operador"},
	})

	row := 9
	for _, rec := range records {
		kind := "Entrada"
		if rec.Kind == ledger.KindExpense {
			kind = "Gasto"
		}
		row = writeRows(f, sheet, row, [][]any{
			{rec.Date, kind, rec.Detail, string(rec.Method), cell(rec.Value), orDash(rec.Operator)},
		})
	}

	s.logger.Info("period report rendered", "from", from, "to", to, "records", totals.Count)
	return workbookBytes(f)
}

// MonthReport renders the period from the first of the current month to
// today.
func (s *Service) MonthReport() ([]byte, error) {
	today := s.reg.Today()
	from := today[:8] + "01"
	return s.PeriodReport(from, today, fmt.Sprintf("Relatório do Mês (%s)", today[:7]))
}

// =============================================================================
// CUSTOMER REPORT
// =============================================================================

// CustomerReport renders one customer's income history with the running
// total in the header. An unknown customer yields an empty table, matching
// the query's silent-empty contract.
func (s *Service) CustomerReport(name string) ([]byte, error) {
	records, total := s.reg.CustomerHistory(name)
	cfg := s.reg.Config()

	f, sheet := newWorkbook("Aluno")
	writeRows(f, sheet, 1, [][]any{
		{cfg.Name},
		{fmt.Sprintf("Histórico do Aluno: %s", name)},
		{"Total recebido", cell(total)},
		{},
		{"Data", "Hora", "Tipo", "Forma", "Valor", "Recebido por", "Obs"},
	})

	row := 6
	for _, rec := range records {
		row = writeRows(f, sheet, row, [][]any{
			{rec.Date, rec.Time, rec.Type, string(rec.Method), cell(rec.Value), rec.Receiver, rec.Note},
		})
	}

	s.logger.Info("customer report rendered", "customer", name, "records", len(records))
	return workbookBytes(f)
}

// =============================================================================
// WORKBOOK HELPERS
// =============================================================================

func newWorkbook(sheet string) (*excelize.File, string) {
	f := excelize.NewFile()
	index, _ := f.NewSheet(sheet)
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")
	return f, sheet
}

// writeRows writes consecutive rows starting at startRow and returns the
// next free row.
func writeRows(f *excelize.File, sheet string, startRow int, rows [][]any) int {
	for r, cells := range rows {
		for c, v := range cells {
			name, _ := excelize.CoordinatesToCellName(c+1, startRow+r)
			f.SetCellValue(sheet, name, v)
		}
	}
	return startRow + len(rows)
}

func workbookBytes(f *excelize.File) ([]byte, error) {
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// cell renders a monetary value as a spreadsheet number. Display only;
// every aggregation happens in decimal before this point.
func cell(v decimal.Decimal) float64 {
	return v.InexactFloat64()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
