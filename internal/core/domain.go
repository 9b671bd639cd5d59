package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

func init() {
	// Persisted records and API payloads carry amounts as plain JSON
	// numbers, matching values written by earlier versions of the app.
	decimal.MarshalJSONWithoutQuotes = true
}

var (
	ErrMalformedRecord = errors.New("malformed day record")
	ErrEntryNotFound   = errors.New("ledger entry not found")
	ErrInvalidAmount   = errors.New("invalid amount")
)

// EntryKind names one of the two entry lists of a DayRecord.
type EntryKind string

const (
	Earnings      EntryKind = "earnings"
	ExtraExpenses EntryKind = "extraExpenses"
)

func (k EntryKind) Validate() error {
	switch k {
	case Earnings, ExtraExpenses:
		return nil
	}
	return fmt.Errorf("unknown entry kind %q", string(k))
}

// LedgerEntry is a single earning or expense line within a day.
type LedgerEntry struct {
	ID     string          `json:"id"`
	Amount decimal.Decimal `json:"amount"`
	Note   string          `json:"note,omitempty"`
}

// DayRecord is the raw persisted state for one calendar date. Every
// field is optional in storage: a record written mid-day may carry only
// a subset, and decoding leaves the rest at their zero values.
type DayRecord struct {
	StartOdometer decimal.Decimal `json:"startOdometer"`
	EndOdometer   decimal.Decimal `json:"endOdometer"`
	FuelCostPerKm decimal.Decimal `json:"fuelCostPerKm"`
	Earnings      []LedgerEntry   `json:"earnings,omitempty"`
	ExtraExpenses []LedgerEntry   `json:"extraExpenses,omitempty"`
}

// Entries returns a pointer to the list named by kind so the edit flow
// can mutate entries in place.
func (r *DayRecord) Entries(kind EntryKind) *[]LedgerEntry {
	if kind == ExtraExpenses {
		return &r.ExtraExpenses
	}
	return &r.Earnings
}

// DaySummary carries the derived financial metrics for one date. It is
// recomputed on every read and never persisted, so it always reflects
// the raw record it was built from.
type DaySummary struct {
	Date Date `json:"date"`
	DayRecord
	DistanceTraveled decimal.Decimal `json:"distanceTraveled"`
	FuelExpense      decimal.Decimal `json:"fuelExpense"`
	TotalEarnings    decimal.Decimal `json:"totalEarnings"`
	TotalExpenses    decimal.Decimal `json:"totalExpenses"`
	NetProfit        decimal.Decimal `json:"netProfit"`
}

// HistoryDay is one line of the history listing.
type HistoryDay struct {
	Date          Date            `json:"date"`
	TotalEarnings decimal.Decimal `json:"totalEarnings"`
	NetProfit     decimal.Decimal `json:"netProfit"`
}

// ParseAmount parses a user-entered amount, accepting either "." or
// "," as the decimal separator. It wraps ErrInvalidAmount on any input
// that is not a number.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return decimal.Decimal{}, fmt.Errorf("%w: empty input", ErrInvalidAmount)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return d, nil
}
