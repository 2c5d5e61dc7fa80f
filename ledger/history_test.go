package ledger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/academia/caixa/ledger"
)

// =============================================================================
// RANGE QUERIES
// =============================================================================

func threeDayRegister(t *testing.T) *ledger.Register {
	t.Helper()
	reg := newTestRegister(t)
	addIncome(t, reg, "2025-03-09", "João", ledger.PayCash, "40")
	addIncome(t, reg, "2025-03-10", "Ana", ledger.PayPix, "80")
	addExpense(t, reg, "2025-03-10", ledger.PayCash, "30")
	addIncome(t, reg, "2025-03-11", "Bia", ledger.PayCard, "60")
	return reg
}

func TestMovementsInRange_NewestDateFirst(t *testing.T) {
	// GIVEN: Movements across three consecutive days
	// WHEN: Querying the whole range
	// THEN: Records come back newest date first, income before expense per day

	reg := threeDayRegister(t)

	recs, err := reg.MovementsInRange("2025-03-09", "2025-03-11", ledger.FilterAll)
	require.NoError(t, err)

	require.Len(t, recs, 4)
	assert.Equal(t, "2025-03-11", recs[0].Date)
	assert.Equal(t, "2025-03-10", recs[1].Date)
	assert.Equal(t, ledger.KindIncome, recs[1].Kind)
	assert.Equal(t, "2025-03-10", recs[2].Date)
	assert.Equal(t, ledger.KindExpense, recs[2].Kind)
	assert.Equal(t, "2025-03-09", recs[3].Date)
}

func TestMovementsInRange_BoundsAreInclusive(t *testing.T) {
	// GIVEN: Movements on 09, 10 and 11
	// WHEN: Querying exactly 10..10
	// THEN: Only the middle day's records

	reg := threeDayRegister(t)

	recs, err := reg.MovementsInRange("2025-03-10", "2025-03-10", ledger.FilterAll)
	require.NoError(t, err)

	require.Len(t, recs, 2)
	for _, rec := range recs {
		assert.Equal(t, "2025-03-10", rec.Date)
	}
}

func TestMovementsInRange_KindFilters(t *testing.T) {
	// GIVEN: A mixed range
	// WHEN: Filtering by income, then by expense
	// THEN: Each view holds only its kind

	reg := threeDayRegister(t)

	incomes, err := reg.MovementsInRange("2025-03-09", "2025-03-11", ledger.FilterIncome)
	require.NoError(t, err)
	require.Len(t, incomes, 3)
	for _, rec := range incomes {
		assert.Equal(t, ledger.KindIncome, rec.Kind)
	}

	expenses, err := reg.MovementsInRange("2025-03-09", "2025-03-11", ledger.FilterExpense)
	require.NoError(t, err)
	require.Len(t, expenses, 1)
	assert.Equal(t, ledger.KindExpense, expenses[0].Kind)
}

func TestMovementsInRange_SignConvention(t *testing.T) {
	// GIVEN: One income and one expense
	// WHEN: Flattening
	// THEN: Income stays positive, expense is negated

	reg := threeDayRegister(t)

	recs, err := reg.MovementsInRange("2025-03-10", "2025-03-10", ledger.FilterAll)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.True(t, recs[0].Value.Equal(money("80")))
	assert.True(t, recs[1].Value.Equal(money("-30")))
}

func TestMovementsInRange_DetailStrings(t *testing.T) {
	// GIVEN: An income with a customer and an expense
	// WHEN: Flattening
	// THEN: Details read "type • customer" and "category • description"

	reg := threeDayRegister(t)

	recs, err := reg.MovementsInRange("2025-03-10", "2025-03-10", ledger.FilterAll)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, "Mensalidade • Ana", recs[0].Detail)
	assert.Equal(t, "Manutenção • Conserto", recs[1].Detail)
}

func TestMovementsInRange_NoCustomerDetailIsBareType(t *testing.T) {
	// GIVEN: An income without a customer
	// WHEN: Flattening
	// THEN: The detail is just the income type

	reg := newTestRegister(t)
	addIncome(t, reg, "2025-03-10", "", ledger.PayCash, "25")

	recs, err := reg.MovementsInRange("2025-03-10", "2025-03-10", ledger.FilterAll)
	require.NoError(t, err)
	require.Len(t, recs, 1)

	assert.Equal(t, "Mensalidade", recs[0].Detail)
}

func TestMovementsInRange_EmptyNeighborsContributeNothing(t *testing.T) {
	// GIVEN: Data on exactly one day
	// WHEN: Querying the surrounding three-day window
	// THEN: Exactly that day's records; income filter narrows to its incomes

	reg := newTestRegister(t)
	addIncome(t, reg, "2025-03-10", "João", ledger.PayCash, "100")
	addIncome(t, reg, "2025-03-10", "Ana", ledger.PayPix, "50")
	addExpense(t, reg, "2025-03-10", ledger.PayCash, "30")

	recs, err := reg.MovementsInRange("2025-03-09", "2025-03-11", ledger.FilterAll)
	require.NoError(t, err)
	assert.Len(t, recs, 3)

	incomes, err := reg.MovementsInRange("2025-03-09", "2025-03-11", ledger.FilterIncome)
	require.NoError(t, err)
	assert.Len(t, incomes, 2)
}

func TestMovementsInRange_EmptyRangeYieldsNothing(t *testing.T) {
	// GIVEN: A register with movements in March
	// WHEN: Querying a January window
	// THEN: Empty result, no error

	reg := threeDayRegister(t)

	recs, err := reg.MovementsInRange("2025-01-01", "2025-01-31", ledger.FilterAll)

	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestMovementsInRange_ExtremeBoundsStayCheap(t *testing.T) {
	// GIVEN: Three days of data
	// WHEN: Querying the widest representable window
	// THEN: All records return; the walk visits only the dates that exist,
	//       not every calendar day between the bounds

	reg := threeDayRegister(t)

	recs, err := reg.MovementsInRange("0001-01-01", "9999-12-31", ledger.FilterAll)

	require.NoError(t, err)
	assert.Len(t, recs, 4)
	assert.Equal(t, "2025-03-11", recs[0].Date)
}

func TestMovementsInRange_BadDatesRejected(t *testing.T) {
	// GIVEN: Malformed range bounds
	// WHEN: Querying
	// THEN: InvalidRangeError, a client error

	reg := newTestRegister(t)

	for _, bounds := range [][2]string{
		{"not-a-date", "2025-03-10"},
		{"2025-03-10", "10/03/2025"},
		{"", ""},
	} {
		_, err := reg.MovementsInRange(bounds[0], bounds[1], ledger.FilterAll)
		require.Error(t, err)
		assert.ErrorIs(t, err, ledger.ErrInvalidRange)
		assert.True(t, ledger.IsClientError(err))
	}
}

func TestMovementsInRange_InvertedRangeYieldsNothing(t *testing.T) {
	// GIVEN: from after to
	// WHEN: Querying
	// THEN: Valid dates, empty window

	reg := threeDayRegister(t)

	recs, err := reg.MovementsInRange("2025-03-11", "2025-03-09", ledger.FilterAll)

	require.NoError(t, err)
	assert.Empty(t, recs)
}

// =============================================================================
// RANGE TOTALS
// =============================================================================

func TestRangeTotalsOf_NonNegativeAggregates(t *testing.T) {
	// GIVEN: A flattened range with signed values
	// WHEN: Aggregating
	// THEN: In and out totals are absolute sums, balance is their difference

	reg := threeDayRegister(t)
	recs, err := reg.MovementsInRange("2025-03-09", "2025-03-11", ledger.FilterAll)
	require.NoError(t, err)

	tot := ledger.RangeTotalsOf(recs)

	assert.True(t, tot.InTotal.Equal(money("180")))
	assert.True(t, tot.OutTotal.Equal(money("30")))
	assert.True(t, tot.Balance.Equal(money("150")))
	assert.Equal(t, 4, tot.Count)
}

func TestRangeTotalsOf_EmptyIsZero(t *testing.T) {
	tot := ledger.RangeTotalsOf(nil)

	assert.True(t, tot.InTotal.IsZero())
	assert.True(t, tot.OutTotal.IsZero())
	assert.True(t, tot.Balance.IsZero())
	assert.Equal(t, 0, tot.Count)
}
