package models

import "time"

// RecordType splits financial records into the two statement sides.
type RecordType string

const (
	RecordIncome  RecordType = "INCOME"
	RecordExpense RecordType = "EXPENSE"
)

// IsValid checks the record type.
func (t RecordType) IsValid() bool {
	return t == RecordIncome || t == RecordExpense
}

func (t RecordType) String() string { return string(t) }

// RecordCategory classifies a financial record for statement construction.
type RecordCategory string

const (
	CategorySales       RecordCategory = "SALES"
	CategorySupplies    RecordCategory = "SUPPLIES"
	CategoryLabor       RecordCategory = "LABOR"
	CategoryUtilities   RecordCategory = "UTILITIES"
	CategoryPackaging   RecordCategory = "PACKAGING"
	CategoryLogistics   RecordCategory = "LOGISTICS"
	CategoryMaintenance RecordCategory = "MAINTENANCE"
	CategoryOthers      RecordCategory = "OTHERS"
)

// IsValid checks membership in the closed category set.
func (c RecordCategory) IsValid() bool {
	switch c {
	case CategorySales, CategorySupplies, CategoryLabor, CategoryUtilities,
		CategoryPackaging, CategoryLogistics, CategoryMaintenance, CategoryOthers:
		return true
	}
	return false
}

func (c RecordCategory) String() string { return string(c) }

// RecordStatus tracks settlement. PENDING records may transition to
// COMPLETED; COMPLETED records are immutable.
type RecordStatus string

const (
	StatusPending   RecordStatus = "PENDING"
	StatusCompleted RecordStatus = "COMPLETED"
)

// IsValid checks the status value.
func (s RecordStatus) IsValid() bool {
	return s == StatusPending || s == StatusCompleted
}

func (s RecordStatus) String() string { return string(s) }

// IsTerminal reports whether no further transition is allowed.
func (s RecordStatus) IsTerminal() bool { return s == StatusCompleted }

// FinancialRecord is one categorized ledger transaction. Auto-generated sale
// records start PENDING until explicitly settled.
type FinancialRecord struct {
	ID          string         `bson:"_id,omitempty" json:"id"`
	Site        string         `bson:"site" json:"site"`
	Type        RecordType     `bson:"type" json:"type"`
	Category    RecordCategory `bson:"category" json:"category"`
	Description string         `bson:"description,omitempty" json:"description,omitempty"`
	Amount      float64        `bson:"amount" json:"amount"`
	Date        time.Time      `bson:"date" json:"date"`
	Status      RecordStatus   `bson:"status" json:"status"`
	BatchID     string         `bson:"batch_id,omitempty" json:"batchId,omitempty"`
	CreatedAt   time.Time      `bson:"created_at" json:"createdAt"`
}

// SiteKind routes Utilities between COGS (farming) and OpEx (processing).
type SiteKind string

const (
	SiteFarming    SiteKind = "FARMING"
	SiteProcessing SiteKind = "PROCESSING"
)

// IsValid checks the site kind.
func (k SiteKind) IsValid() bool {
	return k == SiteFarming || k == SiteProcessing
}
