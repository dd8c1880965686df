package finance

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/mycofarm/internal/domain/errs"
	"github.com/mamadbah2/mycofarm/internal/domain/models"
	"github.com/mamadbah2/mycofarm/internal/repository/mongodb"
)

// Aggregator turns categorized ledger transactions into P&L statements and
// period-bucketed cash-flow series. All computation happens on demand from
// the current record snapshot; nothing is maintained incrementally.
type Aggregator struct {
	ledger mongodb.LedgerRepository
	logger *zap.Logger
	now    func() time.Time
}

// NewAggregator wires a financial aggregator.
func NewAggregator(ledger mongodb.LedgerRepository, logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{ledger: ledger, logger: logger, now: time.Now}
}

// Statement is a profit-and-loss summary for a site and period. Pending
// records are excluded from the statement lines and reported separately as
// receivables and payables.
type Statement struct {
	Site        string    `json:"site"`
	From        time.Time `json:"from"`
	To          time.Time `json:"to"`
	Revenue     float64   `json:"revenue"`
	OtherIncome float64   `json:"otherIncome"`
	COGS        float64   `json:"cogs"`
	OpEx        float64   `json:"opex"`
	GrossProfit float64   `json:"grossProfit"`
	NetProfit   float64   `json:"netProfit"`
	Receivables float64   `json:"receivables"`
	Payables    float64   `json:"payables"`
}

// BuildStatement classifies COMPLETED records into the statement lines.
// Utilities route into COGS for farming sites and into OpEx for processing
// sites; packaging and logistics are COGS only at processing sites.
func (a *Aggregator) BuildStatement(ctx context.Context, site string, kind models.SiteKind, from, to time.Time) (Statement, error) {
	if !kind.IsValid() {
		return Statement{}, errs.Validation("unknown site kind %q", kind)
	}

	records, err := a.ledger.ListRecords(ctx, site, from, to)
	if err != nil {
		return Statement{}, err
	}

	var revenue, otherIncome, cogs, opex, receivables, payables decimal.Decimal

	for _, record := range records {
		amount := decimal.NewFromFloat(record.Amount)

		if record.Status == models.StatusPending {
			if record.Type == models.RecordIncome {
				receivables = receivables.Add(amount)
			} else {
				payables = payables.Add(amount)
			}
			continue
		}
		if record.Status != models.StatusCompleted {
			continue
		}

		switch record.Type {
		case models.RecordIncome:
			if record.Category == models.CategorySales {
				revenue = revenue.Add(amount)
			} else {
				otherIncome = otherIncome.Add(amount)
			}
		case models.RecordExpense:
			switch record.Category {
			case models.CategorySupplies:
				if !isPackagingLabeled(record.Description) {
					cogs = cogs.Add(amount)
				}
			case models.CategoryLabor:
				cogs = cogs.Add(amount)
			case models.CategoryUtilities:
				if kind == models.SiteFarming {
					cogs = cogs.Add(amount)
				} else {
					opex = opex.Add(amount)
				}
			case models.CategoryPackaging, models.CategoryLogistics:
				if kind == models.SiteProcessing {
					cogs = cogs.Add(amount)
				}
			case models.CategoryOthers, models.CategoryMaintenance:
				opex = opex.Add(amount)
			}
		}
	}

	gross := revenue.Sub(cogs)
	net := gross.Add(otherIncome).Sub(opex)

	return Statement{
		Site:        site,
		From:        from,
		To:          to,
		Revenue:     toFloat(revenue),
		OtherIncome: toFloat(otherIncome),
		COGS:        toFloat(cogs),
		OpEx:        toFloat(opex),
		GrossProfit: toFloat(gross),
		NetProfit:   toFloat(net),
		Receivables: toFloat(receivables),
		Payables:    toFloat(payables),
	}, nil
}

// isPackagingLabeled keeps packaging-labeled supply purchases out of the
// supplies COGS line.
func isPackagingLabeled(description string) bool {
	return strings.Contains(strings.ToLower(description), "packaging")
}

// Period selects the cash-flow bucketing granularity.
type Period string

const (
	PeriodDaily   Period = "DAILY"
	PeriodWeekly  Period = "WEEKLY"
	PeriodMonthly Period = "MONTHLY"
	PeriodYearly  Period = "YEARLY"
)

// IsValid checks the period value.
func (p Period) IsValid() bool {
	switch p {
	case PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodYearly:
		return true
	}
	return false
}

// Bucket is one point of a cash-flow trend series. Income and expense are
// summed independently for chart rendering.
type Bucket struct {
	Label   string    `json:"label"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	Income  float64   `json:"income"`
	Expense float64   `json:"expense"`
}

// CashFlowSeries buckets COMPLETED records into the trailing window of the
// chosen period: 7 calendar days, 4 Monday-aligned weeks, 6 months or 3
// years, oldest bucket first.
func (a *Aggregator) CashFlowSeries(ctx context.Context, site string, period Period) ([]Bucket, error) {
	if !period.IsValid() {
		return nil, errs.Validation("unknown period %q", period)
	}

	now := a.now().UTC()
	buckets := buildBuckets(period, now)
	from := buckets[0].Start
	to := buckets[len(buckets)-1].End

	records, err := a.ledger.ListRecords(ctx, site, from, to)
	if err != nil {
		return nil, err
	}

	for _, record := range records {
		if record.Status != models.StatusCompleted {
			continue
		}
		for i := range buckets {
			if record.Date.Before(buckets[i].Start) || !record.Date.Before(buckets[i].End) {
				continue
			}
			switch record.Type {
			case models.RecordIncome:
				buckets[i].Income += record.Amount
			case models.RecordExpense:
				buckets[i].Expense += record.Amount
			}
			break
		}
	}

	return buckets, nil
}

func buildBuckets(period Period, now time.Time) []Bucket {
	switch period {
	case PeriodWeekly:
		buckets := make([]Bucket, 0, 4)
		weekStart := mondayStart(now)
		for i := 3; i >= 0; i-- {
			start := weekStart.AddDate(0, 0, -7*i)
			buckets = append(buckets, Bucket{
				Label: start.Format("Jan 02"),
				Start: start,
				End:   start.AddDate(0, 0, 7),
			})
		}
		return buckets
	case PeriodMonthly:
		buckets := make([]Bucket, 0, 6)
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		for i := 5; i >= 0; i-- {
			start := monthStart.AddDate(0, -i, 0)
			buckets = append(buckets, Bucket{
				Label: start.Format("Jan 2006"),
				Start: start,
				End:   start.AddDate(0, 1, 0),
			})
		}
		return buckets
	case PeriodYearly:
		buckets := make([]Bucket, 0, 3)
		yearStart := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		for i := 2; i >= 0; i-- {
			start := yearStart.AddDate(-i, 0, 0)
			buckets = append(buckets, Bucket{
				Label: start.Format("2006"),
				Start: start,
				End:   start.AddDate(1, 0, 0),
			})
		}
		return buckets
	default: // PeriodDaily
		buckets := make([]Bucket, 0, 7)
		dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		for i := 6; i >= 0; i-- {
			start := dayStart.AddDate(0, 0, -i)
			buckets = append(buckets, Bucket{
				Label: start.Format("Jan 02"),
				Start: start,
				End:   start.AddDate(0, 0, 1),
			})
		}
		return buckets
	}
}

func mondayStart(t time.Time) time.Time {
	weekday := int(t.Weekday())
	daysSinceMonday := (weekday + 6) % 7
	start := t.AddDate(0, 0, -daysSinceMonday)
	return time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Round(4).Float64()
	return f
}
