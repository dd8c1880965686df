package models

import "time"

// DailySnapshot is the aggregated end-of-day financial picture persisted by
// the scheduler and mirrored to the spreadsheet export.
type DailySnapshot struct {
	Date        time.Time `bson:"date" json:"date"`
	Site        string    `bson:"site" json:"site"`
	Revenue     float64   `bson:"revenue" json:"revenue"`
	OtherIncome float64   `bson:"other_income" json:"otherIncome"`
	COGS        float64   `bson:"cogs" json:"cogs"`
	OpEx        float64   `bson:"opex" json:"opex"`
	GrossProfit float64   `bson:"gross_profit" json:"grossProfit"`
	NetProfit   float64   `bson:"net_profit" json:"netProfit"`
	Receivables float64   `bson:"receivables" json:"receivables"`
	Payables    float64   `bson:"payables" json:"payables"`
	CreatedAt   time.Time `bson:"created_at" json:"createdAt"`
}
