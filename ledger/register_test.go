package ledger_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/academia/caixa/ledger"
	"github.com/academia/caixa/ledger/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

var operator = ledger.Actor{Username: "maria", Role: ledger.RoleOperator}

// faultStore wraps a working store and fails selected writes, for exercising
// the register's rollback paths.
type faultStore struct {
	ledger.Store
	failSaveDay     bool
	failSaveClosure bool
}

var errDiskFull = errors.New("disk full")

func (s *faultStore) SaveDay(ctx context.Context, day *ledger.DayLedger) error {
	if s.failSaveDay {
		return errDiskFull
	}
	return s.Store.SaveDay(ctx, day)
}

func (s *faultStore) SaveClosure(ctx context.Context, rec ledger.ClosureRecord) error {
	if s.failSaveClosure {
		return errDiskFull
	}
	return s.Store.SaveClosure(ctx, rec)
}

func newTestRegister(t *testing.T) *ledger.Register {
	t.Helper()
	reg, err := ledger.NewRegister(context.Background(), store.NewMemory(),
		ledger.FixedClock{Date: "2025-03-10", Time: "09:30"})
	require.NoError(t, err)
	return reg
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func addIncome(t *testing.T, reg *ledger.Register, date, customer string, method ledger.PaymentMethod, value string) ledger.Income {
	t.Helper()
	mv, err := reg.AddIncome(context.Background(), date, ledger.IncomeInput{
		Customer: customer,
		Type:     "Mensalidade",
		Method:   method,
		Value:    money(value),
	}, operator)
	require.NoError(t, err)
	return mv
}

func addExpense(t *testing.T, reg *ledger.Register, date string, method ledger.PaymentMethod, value string) ledger.Expense {
	t.Helper()
	mv, err := reg.AddExpense(context.Background(), date, ledger.ExpenseInput{
		Category:    "Manutenção",
		Description: "Conserto",
		Method:      method,
		Value:       money(value),
	}, operator)
	require.NoError(t, err)
	return mv
}

// =============================================================================
// DAY CREATION
// =============================================================================

func TestDay_FirstTouchCreatesEmptyOpenDay(t *testing.T) {
	// GIVEN: A fresh register
	// WHEN: Reading a date nobody wrote to
	// THEN: The day exists, open, with empty movement lists

	reg := newTestRegister(t)

	day := reg.Day("2025-03-10")

	assert.Equal(t, "2025-03-10", day.Date)
	assert.False(t, day.Closed)
	assert.Empty(t, day.In)
	assert.Empty(t, day.Out)
}

func TestDay_ReturnsACopy(t *testing.T) {
	// GIVEN: A day with one income
	// WHEN: Mutating the returned view
	// THEN: The register's own state is untouched

	reg := newTestRegister(t)
	addIncome(t, reg, "2025-03-10", "João", ledger.PayCash, "100")

	view := reg.Day("2025-03-10")
	view.In[0].Customer = "hacked"

	assert.Equal(t, "João", reg.Day("2025-03-10").In[0].Customer)
}

// =============================================================================
// ADD INCOME
// =============================================================================

func TestAddIncome_RecordsMovement(t *testing.T) {
	// GIVEN: An open day
	// WHEN: Recording a 100 cash income
	// THEN: The movement carries an id, the clock's time, and the actor

	reg := newTestRegister(t)

	mv := addIncome(t, reg, "2025-03-10", "João", ledger.PayCash, "100")

	assert.NotEmpty(t, mv.ID)
	assert.Equal(t, "09:30", mv.Time)
	assert.Equal(t, "maria", mv.Receiver)
	assert.Equal(t, "maria", mv.CreatedBy)
	assert.True(t, mv.Value.Equal(money("100")))

	day := reg.Day("2025-03-10")
	require.Len(t, day.In, 1)
	assert.Equal(t, mv.ID, day.In[0].ID)
}

func TestAddIncome_UniqueIdentifiers(t *testing.T) {
	// GIVEN: Two incomes on the same day
	// WHEN: Comparing their identifiers
	// THEN: They differ

	reg := newTestRegister(t)

	a := addIncome(t, reg, "2025-03-10", "João", ledger.PayCash, "50")
	b := addIncome(t, reg, "2025-03-10", "João", ledger.PayCash, "50")

	assert.NotEqual(t, a.ID, b.ID)
}

func TestAddIncome_NonPositiveValueRejected(t *testing.T) {
	// GIVEN: An open day
	// WHEN: Recording a zero and a negative income
	// THEN: Both fail as validation errors and nothing is stored

	reg := newTestRegister(t)

	for _, v := range []string{"0", "-10"} {
		_, err := reg.AddIncome(context.Background(), "2025-03-10", ledger.IncomeInput{
			Type:  "Mensalidade",
			Value: money(v),
		}, operator)
		require.Error(t, err)
		assert.ErrorIs(t, err, ledger.ErrValidation)
		assert.True(t, ledger.IsClientError(err))
	}
	assert.Empty(t, reg.Day("2025-03-10").In)
}

func TestAddIncome_ReceiverDefaultsToActor(t *testing.T) {
	// GIVEN: An income input without a receiver
	// WHEN: Recording it
	// THEN: The acting user becomes the receiver

	reg := newTestRegister(t)

	mv, err := reg.AddIncome(context.Background(), "2025-03-10", ledger.IncomeInput{
		Type:  "Diária",
		Value: money("25"),
	}, ledger.Actor{Username: "carlos", Role: ledger.RoleOperator})
	require.NoError(t, err)

	assert.Equal(t, "carlos", mv.Receiver)
}

func TestAddIncome_CustomerNameTrimmed(t *testing.T) {
	// GIVEN: A customer name with surrounding whitespace
	// WHEN: Recording the income
	// THEN: The stored name is trimmed

	reg := newTestRegister(t)

	mv := addIncome(t, reg, "2025-03-10", "  Ana Souza  ", ledger.PayPix, "80")

	assert.Equal(t, "Ana Souza", mv.Customer)
}

// =============================================================================
// ADD EXPENSE
// =============================================================================

func TestAddExpense_RecordsMovement(t *testing.T) {
	// GIVEN: An open day
	// WHEN: Recording a 30 cash expense
	// THEN: The movement lands in the day's outflow list

	reg := newTestRegister(t)

	mv := addExpense(t, reg, "2025-03-10", ledger.PayCash, "30")

	assert.NotEmpty(t, mv.ID)
	assert.Equal(t, "maria", mv.CreatedBy)

	day := reg.Day("2025-03-10")
	require.Len(t, day.Out, 1)
	assert.Equal(t, mv.ID, day.Out[0].ID)
}

func TestAddExpense_EmptyDescriptionRejected(t *testing.T) {
	// GIVEN: An expense with a blank description
	// WHEN: Recording it
	// THEN: A validation error, nothing stored

	reg := newTestRegister(t)

	_, err := reg.AddExpense(context.Background(), "2025-03-10", ledger.ExpenseInput{
		Category:    "Limpeza",
		Description: "   ",
		Value:       money("15"),
	}, operator)

	require.Error(t, err)
	assert.ErrorIs(t, err, ledger.ErrValidation)
	assert.Empty(t, reg.Day("2025-03-10").Out)
}

// =============================================================================
// DELETE MOVEMENT
// =============================================================================

func TestDeleteMovement_RemovesOnlyTheTarget(t *testing.T) {
	// GIVEN: A day with two incomes and one expense
	// WHEN: Deleting the first income
	// THEN: The second income and the expense survive

	reg := newTestRegister(t)
	a := addIncome(t, reg, "2025-03-10", "João", ledger.PayCash, "50")
	b := addIncome(t, reg, "2025-03-10", "Ana", ledger.PayPix, "80")
	addExpense(t, reg, "2025-03-10", ledger.PayCash, "20")

	removed, err := reg.DeleteMovement(context.Background(), "2025-03-10", ledger.KindIncome, a.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	day := reg.Day("2025-03-10")
	require.Len(t, day.In, 1)
	assert.Equal(t, b.ID, day.In[0].ID)
	assert.Len(t, day.Out, 1)
}

func TestDeleteMovement_UnknownIDIsNotAnError(t *testing.T) {
	// GIVEN: A day with one income
	// WHEN: Deleting an id that does not exist
	// THEN: No error, removed=false, day unchanged

	reg := newTestRegister(t)
	addIncome(t, reg, "2025-03-10", "João", ledger.PayCash, "50")

	removed, err := reg.DeleteMovement(context.Background(), "2025-03-10", ledger.KindIncome, "nope")

	require.NoError(t, err)
	assert.False(t, removed)
	assert.Len(t, reg.Day("2025-03-10").In, 1)
}

func TestDeleteMovement_KindsAreSeparateNamespaces(t *testing.T) {
	// GIVEN: An income movement
	// WHEN: Deleting its id from the expense list
	// THEN: Nothing is removed

	reg := newTestRegister(t)
	mv := addIncome(t, reg, "2025-03-10", "João", ledger.PayCash, "50")

	removed, err := reg.DeleteMovement(context.Background(), "2025-03-10", ledger.KindExpense, mv.ID)

	require.NoError(t, err)
	assert.False(t, removed)
	assert.Len(t, reg.Day("2025-03-10").In, 1)
}

func TestDeleteMovement_StoreFailureRestoresMovement(t *testing.T) {
	// GIVEN: A day with two incomes and a store whose SaveDay fails
	// WHEN: Deleting the first income
	// THEN: The error surfaces and the movement is back at its position

	fs := &faultStore{Store: store.NewMemory()}
	reg, err := ledger.NewRegister(context.Background(), fs,
		ledger.FixedClock{Date: "2025-03-10", Time: "09:30"})
	require.NoError(t, err)
	a := addIncome(t, reg, "2025-03-10", "João", ledger.PayCash, "50")
	b := addIncome(t, reg, "2025-03-10", "Ana", ledger.PayPix, "80")

	fs.failSaveDay = true
	removed, err := reg.DeleteMovement(context.Background(), "2025-03-10", ledger.KindIncome, a.ID)
	require.ErrorIs(t, err, errDiskFull)
	assert.False(t, removed)

	day := reg.Day("2025-03-10")
	require.Len(t, day.In, 2)
	assert.Equal(t, a.ID, day.In[0].ID)
	assert.Equal(t, b.ID, day.In[1].ID)

	// Once the store recovers the delete goes through
	fs.failSaveDay = false
	removed, err = reg.DeleteMovement(context.Background(), "2025-03-10", ledger.KindIncome, a.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Len(t, reg.Day("2025-03-10").In, 1)
}

// =============================================================================
// PERSISTENCE
// =============================================================================

func TestRegister_StateSurvivesReload(t *testing.T) {
	// GIVEN: A register with movements and a closed day on a shared store
	// WHEN: Building a second register over the same store
	// THEN: Days, movements and closures are all back

	mem := store.NewMemory()
	ctx := context.Background()
	clock := ledger.FixedClock{Date: "2025-03-10", Time: "09:30"}

	reg, err := ledger.NewRegister(ctx, mem, clock)
	require.NoError(t, err)
	addIncome(t, reg, "2025-03-10", "João", ledger.PayCash, "100")
	addExpense(t, reg, "2025-03-10", ledger.PayPix, "30")
	_, err = reg.CloseDay(ctx, "2025-03-09", operator)
	require.NoError(t, err)

	reloaded, err := ledger.NewRegister(ctx, mem, clock)
	require.NoError(t, err)

	day := reloaded.Day("2025-03-10")
	assert.Len(t, day.In, 1)
	assert.Len(t, day.Out, 1)

	rec, ok := reloaded.Closure("2025-03-09")
	assert.True(t, ok)
	assert.Equal(t, "maria", rec.ClosedBy)
}

// =============================================================================
// CONFIG
// =============================================================================

func TestSetConfig_NormalizesBranding(t *testing.T) {
	// GIVEN: Branding input with whitespace and a long lowercase logo
	// WHEN: Saving it
	// THEN: Name is trimmed, logo is trimmed to two uppercase runes

	reg := newTestRegister(t)

	cfg, err := reg.SetConfig(context.Background(), ledger.Config{
		Name: "  Academia Central  ",
		Logo: "acx",
	})
	require.NoError(t, err)

	assert.Equal(t, "Academia Central", cfg.Name)
	assert.Equal(t, "AC", cfg.Logo)
	assert.Equal(t, cfg, reg.Config())
}

func TestSetConfig_EmptyFallsBackToDefaults(t *testing.T) {
	// GIVEN: Blank branding input
	// WHEN: Saving it
	// THEN: The defaults come back

	reg := newTestRegister(t)

	cfg, err := reg.SetConfig(context.Background(), ledger.Config{})
	require.NoError(t, err)

	assert.Equal(t, "Caixa Academia", cfg.Name)
	assert.Equal(t, "CA", cfg.Logo)
}
