package ledger

import (
	"github.com/shopspring/decimal"

	"kazanc/internal/core"
)

// Summarize derives the financial metrics for one day. It is pure:
// the record is not modified and list order is preserved for display.
// Zero-valued fields (an in-progress day with no odometer readings
// yet, or a record persisted before a field existed) count as 0.
func Summarize(date core.Date, r core.DayRecord) core.DaySummary {
	distance := r.EndOdometer.Sub(r.StartOdometer)
	if distance.IsNegative() {
		distance = decimal.Zero
	}
	fuelExpense := distance.Mul(r.FuelCostPerKm)

	totalEarnings := sumAmounts(r.Earnings)
	totalExpenses := fuelExpense.Add(sumAmounts(r.ExtraExpenses))

	return core.DaySummary{
		Date:             date,
		DayRecord:        r,
		DistanceTraveled: distance,
		FuelExpense:      fuelExpense,
		TotalEarnings:    totalEarnings,
		TotalExpenses:    totalExpenses,
		NetProfit:        totalEarnings.Sub(totalExpenses),
	}
}

func sumAmounts(entries []core.LedgerEntry) decimal.Decimal {
	sum := decimal.Zero
	for _, e := range entries {
		sum = sum.Add(e.Amount)
	}
	return sum
}
