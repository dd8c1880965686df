package finance

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/mycofarm/internal/domain/errs"
	"github.com/mamadbah2/mycofarm/internal/domain/models"
)

type fakeLedger struct {
	records []models.FinancialRecord
	err     error
}

func (f *fakeLedger) CreateRecord(ctx context.Context, r models.FinancialRecord) (string, error) {
	f.records = append(f.records, r)
	return "id", nil
}

func (f *fakeLedger) SettleRecord(ctx context.Context, id string) error { return nil }

func (f *fakeLedger) ListRecords(ctx context.Context, site string, from, to time.Time) ([]models.FinancialRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.FinancialRecord
	for _, r := range f.records {
		if r.Date.Before(from) || r.Date.After(to) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func completed(t models.RecordType, c models.RecordCategory, amount float64, date time.Time) models.FinancialRecord {
	return models.FinancialRecord{Site: "main", Type: t, Category: c, Amount: amount, Date: date, Status: models.StatusCompleted}
}

func newAggregator(ledger *fakeLedger, now time.Time) *Aggregator {
	agg := NewAggregator(ledger, nil)
	agg.now = func() time.Time { return now }
	return agg
}

func TestBuildStatement_FarmingSite(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	ledger := &fakeLedger{records: []models.FinancialRecord{
		completed(models.RecordIncome, models.CategorySales, 1000, now),
		completed(models.RecordExpense, models.CategorySupplies, 200, now),
		completed(models.RecordExpense, models.CategoryLabor, 150, now),
		completed(models.RecordExpense, models.CategoryUtilities, 50, now),
		completed(models.RecordExpense, models.CategoryMaintenance, 50, now),
		completed(models.RecordExpense, models.CategoryOthers, 20, now),
	}}

	statement, err := newAggregator(ledger, now).BuildStatement(context.Background(), "main", models.SiteFarming, now.AddDate(0, 0, -1), now.AddDate(0, 0, 1))
	require.NoError(t, err)

	assert.InDelta(t, 1000, statement.Revenue, 1e-9)
	assert.InDelta(t, 400, statement.COGS, 1e-9)
	assert.InDelta(t, 600, statement.GrossProfit, 1e-9)
	assert.InDelta(t, 70, statement.OpEx, 1e-9)
	assert.InDelta(t, 530, statement.NetProfit, 1e-9)
}

func TestBuildStatement_ProcessingSiteRouting(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	ledger := &fakeLedger{records: []models.FinancialRecord{
		completed(models.RecordIncome, models.CategorySales, 500, now),
		completed(models.RecordExpense, models.CategoryUtilities, 40, now),
		completed(models.RecordExpense, models.CategoryPackaging, 30, now),
		completed(models.RecordExpense, models.CategoryLogistics, 25, now),
	}}

	statement, err := newAggregator(ledger, now).BuildStatement(context.Background(), "plant", models.SiteProcessing, now.AddDate(0, 0, -1), now.AddDate(0, 0, 1))
	require.NoError(t, err)

	// Utilities shift to OpEx; packaging and logistics become COGS.
	assert.InDelta(t, 55, statement.COGS, 1e-9)
	assert.InDelta(t, 40, statement.OpEx, 1e-9)
	assert.InDelta(t, 445, statement.GrossProfit, 1e-9)
	assert.InDelta(t, 405, statement.NetProfit, 1e-9)
}

func TestBuildStatement_PendingTrackedSeparately(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	ledger := &fakeLedger{records: []models.FinancialRecord{
		completed(models.RecordIncome, models.CategorySales, 100, now),
		{Site: "main", Type: models.RecordIncome, Category: models.CategorySales, Amount: 60, Date: now, Status: models.StatusPending},
		{Site: "main", Type: models.RecordExpense, Category: models.CategorySupplies, Amount: 25, Date: now, Status: models.StatusPending},
	}}

	statement, err := newAggregator(ledger, now).BuildStatement(context.Background(), "main", models.SiteFarming, now.AddDate(0, 0, -1), now.AddDate(0, 0, 1))
	require.NoError(t, err)

	assert.InDelta(t, 100, statement.Revenue, 1e-9, "pending sales stay off the statement")
	assert.Zero(t, statement.COGS)
	assert.InDelta(t, 60, statement.Receivables, 1e-9)
	assert.InDelta(t, 25, statement.Payables, 1e-9)
}

func TestBuildStatement_PackagingLabeledSuppliesExcluded(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	ledger := &fakeLedger{records: []models.FinancialRecord{
		completed(models.RecordIncome, models.CategorySales, 100, now),
		completed(models.RecordExpense, models.CategorySupplies, 30, now),
		{Site: "main", Type: models.RecordExpense, Category: models.CategorySupplies, Description: "Packaging film rolls", Amount: 12, Date: now, Status: models.StatusCompleted},
	}}

	statement, err := newAggregator(ledger, now).BuildStatement(context.Background(), "main", models.SiteFarming, now.AddDate(0, 0, -1), now.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.InDelta(t, 30, statement.COGS, 1e-9)
}

func TestBuildStatement_OtherIncome(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	ledger := &fakeLedger{records: []models.FinancialRecord{
		completed(models.RecordIncome, models.CategorySales, 100, now),
		completed(models.RecordIncome, models.CategoryOthers, 40, now),
	}}

	statement, err := newAggregator(ledger, now).BuildStatement(context.Background(), "main", models.SiteFarming, now.AddDate(0, 0, -1), now.AddDate(0, 0, 1))
	require.NoError(t, err)

	assert.InDelta(t, 100, statement.Revenue, 1e-9)
	assert.InDelta(t, 40, statement.OtherIncome, 1e-9)
	assert.InDelta(t, 140, statement.NetProfit, 1e-9)
}

func TestBuildStatement_InvalidSiteKind(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	_, err := newAggregator(&fakeLedger{}, now).BuildStatement(context.Background(), "main", models.SiteKind("WAREHOUSE"), now, now)
	assert.True(t, errs.IsValidation(err))
}

func TestCashFlowSeries_Daily(t *testing.T) {
	// A Thursday; the trailing window covers the previous Friday onward.
	now := time.Date(2026, 8, 20, 15, 30, 0, 0, time.UTC)
	ledger := &fakeLedger{records: []models.FinancialRecord{
		completed(models.RecordIncome, models.CategorySales, 100, now.AddDate(0, 0, -1)),
		completed(models.RecordExpense, models.CategorySupplies, 30, now.AddDate(0, 0, -1)),
		completed(models.RecordIncome, models.CategorySales, 50, now),
		// Outside the window, must not appear.
		completed(models.RecordIncome, models.CategorySales, 999, now.AddDate(0, 0, -10)),
	}}

	buckets, err := newAggregator(ledger, now).CashFlowSeries(context.Background(), "main", PeriodDaily)
	require.NoError(t, err)
	require.Len(t, buckets, 7)

	assert.Equal(t, time.Date(2026, 8, 14, 0, 0, 0, 0, time.UTC), buckets[0].Start)
	assert.InDelta(t, 100, buckets[5].Income, 1e-9)
	assert.InDelta(t, 30, buckets[5].Expense, 1e-9)
	assert.InDelta(t, 50, buckets[6].Income, 1e-9)
}

func TestCashFlowSeries_WeeklyMondayAligned(t *testing.T) {
	// Thursday 2026-08-20; the current week starts Monday 2026-08-17.
	now := time.Date(2026, 8, 20, 15, 30, 0, 0, time.UTC)

	buckets, err := newAggregator(&fakeLedger{}, now).CashFlowSeries(context.Background(), "main", PeriodWeekly)
	require.NoError(t, err)
	require.Len(t, buckets, 4)

	for i, bucket := range buckets {
		assert.Equal(t, time.Monday, bucket.Start.Weekday(), "bucket %d", i)
		assert.Equal(t, bucket.Start.AddDate(0, 0, 7), bucket.End)
	}
	assert.Equal(t, time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC), buckets[3].Start)
	assert.Equal(t, time.Date(2026, 7, 27, 0, 0, 0, 0, time.UTC), buckets[0].Start)
}

func TestCashFlowSeries_MonthlyAndYearly(t *testing.T) {
	now := time.Date(2026, 8, 20, 15, 30, 0, 0, time.UTC)
	agg := newAggregator(&fakeLedger{}, now)

	monthly, err := agg.CashFlowSeries(context.Background(), "main", PeriodMonthly)
	require.NoError(t, err)
	require.Len(t, monthly, 6)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), monthly[0].Start)
	assert.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), monthly[5].Start)

	yearly, err := agg.CashFlowSeries(context.Background(), "main", PeriodYearly)
	require.NoError(t, err)
	require.Len(t, yearly, 3)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), yearly[0].Start)
}

func TestCashFlowSeries_ExcludesPending(t *testing.T) {
	now := time.Date(2026, 8, 20, 15, 30, 0, 0, time.UTC)
	ledger := &fakeLedger{records: []models.FinancialRecord{
		{Site: "main", Type: models.RecordIncome, Category: models.CategorySales, Amount: 75, Date: now, Status: models.StatusPending},
	}}

	buckets, err := newAggregator(ledger, now).CashFlowSeries(context.Background(), "main", PeriodDaily)
	require.NoError(t, err)
	for _, bucket := range buckets {
		assert.Zero(t, bucket.Income)
	}
}

func TestCashFlowSeries_InvalidPeriod(t *testing.T) {
	now := time.Date(2026, 8, 20, 15, 30, 0, 0, time.UTC)
	_, err := newAggregator(&fakeLedger{}, now).CashFlowSeries(context.Background(), "main", Period("HOURLY"))
	assert.True(t, errs.IsValidation(err))
}
