package export_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/academia/caixa/export"
	"github.com/academia/caixa/ledger"
	"github.com/academia/caixa/ledger/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestService(t *testing.T) (*export.Service, *ledger.Register) {
	t.Helper()
	reg, err := ledger.NewRegister(context.Background(), store.NewMemory(),
		ledger.FixedClock{Date: "2025-03-10", Time: "09:30"})
	require.NoError(t, err)
	return export.NewService(reg, nil), reg
}

func record(t *testing.T, reg *ledger.Register, date, customer, value string) {
	t.Helper()
	_, err := reg.AddIncome(context.Background(), date, ledger.IncomeInput{
		Customer: customer,
		Type:     "Mensalidade",
		Method:   ledger.PayCash,
		Value:    decimal.RequireFromString(value),
	}, ledger.Actor{Username: "maria", Role: ledger.RoleOperator})
	require.NoError(t, err)
}

// openWorkbook parses rendered bytes back into a workbook.
func openWorkbook(t *testing.T, data []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

// =============================================================================
// DAY REPORT
// =============================================================================

func TestDayReport_RendersTotalsAndRows(t *testing.T) {
	// GIVEN: A day with one income and one expense
	// WHEN: Rendering the day report
	// THEN: The workbook opens, carries the branding header and the totals

	svc, reg := newTestService(t)
	record(t, reg, "2025-03-10", "João", "100")
	_, err := reg.AddExpense(context.Background(), "2025-03-10", ledger.ExpenseInput{
		Category: "Limpeza", Description: "Material",
		Method: ledger.PayPix, Value: decimal.RequireFromString("30"),
	}, ledger.Actor{Username: "maria"})
	require.NoError(t, err)

	data, err := svc.DayReport("2025-03-10")
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f := openWorkbook(t, data)
	name, err := f.GetCellValue("Dia", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Caixa Academia", name)

	inTotal, err := f.GetCellValue("Dia", "B5")
	require.NoError(t, err)
	assert.Equal(t, "100", inTotal)
	outTotal, err := f.GetCellValue("Dia", "D5")
	require.NoError(t, err)
	assert.Equal(t, "30", outTotal)
}

func TestDayReport_BadDateRejected(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.DayReport("10/03/2025")

	assert.ErrorIs(t, err, ledger.ErrInvalidRange)
}

func TestDayReport_ClosedStatusInHeader(t *testing.T) {
	// GIVEN: A closed day
	// WHEN: Rendering
	// THEN: The status line names when and by whom

	svc, reg := newTestService(t)
	_, err := reg.CloseDay(context.Background(), "2025-03-10",
		ledger.Actor{Username: "admin", Role: ledger.RoleAdmin})
	require.NoError(t, err)

	data, err := svc.DayReport("2025-03-10")
	require.NoError(t, err)

	f := openWorkbook(t, data)
	status, err := f.GetCellValue("Dia", "A3")
	require.NoError(t, err)
	assert.Equal(t, "Status: Fechado às 09:30 por admin", status)
}

// =============================================================================
// PERIOD AND MONTH REPORTS
// =============================================================================

func TestPeriodReport_OneRowPerRecord(t *testing.T) {
	// GIVEN: Movements on two days
	// WHEN: Rendering the period
	// THEN: The table holds both, newest date first

	svc, reg := newTestService(t)
	record(t, reg, "2025-03-09", "João", "40")
	record(t, reg, "2025-03-10", "Ana", "80")

	data, err := svc.PeriodReport("2025-03-09", "2025-03-10", "")
	require.NoError(t, err)

	f := openWorkbook(t, data)
	first, err := f.GetCellValue("Período", "A9")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", first)
	second, err := f.GetCellValue("Período", "A10")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-09", second)
}

func TestPeriodReport_BadRangeRejected(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.PeriodReport("bad", "2025-03-10", "")

	assert.ErrorIs(t, err, ledger.ErrInvalidRange)
}

func TestMonthReport_CoversFirstOfMonthThroughToday(t *testing.T) {
	// GIVEN: A movement on the 1st and one outside the month
	// WHEN: Rendering the month report
	// THEN: Only the in-month movement appears

	svc, reg := newTestService(t)
	record(t, reg, "2025-03-01", "João", "40")
	record(t, reg, "2025-02-28", "João", "99")

	data, err := svc.MonthReport()
	require.NoError(t, err)

	f := openWorkbook(t, data)
	count, err := f.GetCellValue("Período", "A6")
	require.NoError(t, err)
	assert.Equal(t, "Total de registros: 1", count)
}

// =============================================================================
// CUSTOMER REPORT
// =============================================================================

func TestCustomerReport_RunningTotalInHeader(t *testing.T) {
	svc, reg := newTestService(t)
	record(t, reg, "2025-03-09", "João", "40")
	record(t, reg, "2025-03-10", "João", "60")
	record(t, reg, "2025-03-10", "Ana", "99")

	data, err := svc.CustomerReport("João")
	require.NoError(t, err)

	f := openWorkbook(t, data)
	total, err := f.GetCellValue("Aluno", "B3")
	require.NoError(t, err)
	assert.Equal(t, "100", total)

	// Rows start at 6, newest date first
	d, err := f.GetCellValue("Aluno", "A6")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", d)
}

func TestCustomerReport_UnknownCustomerIsEmptyTable(t *testing.T) {
	svc, _ := newTestService(t)

	data, err := svc.CustomerReport("Nobody")
	require.NoError(t, err)

	f := openWorkbook(t, data)
	total, err := f.GetCellValue("Aluno", "B3")
	require.NoError(t, err)
	assert.Equal(t, "0", total)
}
