// Package ledger implements the daily ledger core: the codec for
// persisted day records, the per-day aggregator, the repository that
// orchestrates reads and read-modify-write edits against the store,
// and the multi-day window summarizer.
package ledger

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"kazanc/internal/core"
	"kazanc/internal/log"
	"kazanc/internal/storage"
)

// keyPrefix namespaces every ledger key in the store. It is part of
// the persisted format: changing it orphans all existing records.
const keyPrefix = "kazanc:data_"

const defaultBatchSize = 25

func dayKey(date core.Date) string {
	return keyPrefix + date.String()
}

// Repository orchestrates day record access against a KV store. Each
// operation is a single logical flow; concurrent operations on
// distinct dates do not interfere. Two concurrent edits of the same
// date race with last-write-wins, which is acceptable for a
// single-user device.
type Repository struct {
	store     storage.KV
	logger    *log.Logger
	batchSize int
}

func NewRepository(store storage.KV, logger *log.Logger, batchSize int) *Repository {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &Repository{
		store:     store,
		logger:    logger.WithComponent("ledger"),
		batchSize: batchSize,
	}
}

// LoadDay returns the computed summary for one date, or (nil, nil)
// when no record exists for it. A stored but undecodable value is an
// error here, unlike in LoadAllDays: the caller asked for this exact
// day and must learn it is corrupt.
func (r *Repository) LoadDay(ctx context.Context, date core.Date) (*core.DaySummary, error) {
	raw, ok, err := r.store.Get(ctx, dayKey(date))
	if err != nil {
		return nil, fmt.Errorf("load day %s: %w", date, err)
	}
	if !ok {
		return nil, nil
	}
	rec, err := DecodeDayRecord(raw)
	if err != nil {
		return nil, fmt.Errorf("load day %s: %w", date, err)
	}
	summary := Summarize(date, rec)
	return &summary, nil
}

// LoadAllDays lists every stored day, newest first. Values that fail
// to decode are excluded rather than failing the whole listing; the
// second return value reports how many were skipped so callers can
// surface the data loss instead of hiding it.
func (r *Repository) LoadAllDays(ctx context.Context) ([]core.HistoryDay, int, error) {
	keys, err := r.store.Keys(ctx, keyPrefix)
	if err != nil {
		return nil, 0, fmt.Errorf("list ledger keys: %w", err)
	}

	values, err := r.fetchAll(ctx, keys)
	if err != nil {
		return nil, 0, err
	}

	days := make([]core.HistoryDay, 0, len(values))
	skipped := 0
	for key, raw := range values {
		date, err := core.ParseDate(strings.TrimPrefix(key, keyPrefix))
		if err != nil {
			skipped++
			r.logger.Warn("skipping record with malformed key", "key", key, "error", err)
			continue
		}
		rec, err := DecodeDayRecord(raw)
		if err != nil {
			skipped++
			r.logger.Warn("skipping undecodable day record", "key", key, "error", err)
			continue
		}
		s := Summarize(date, rec)
		days = append(days, core.HistoryDay{
			Date:          date,
			TotalEarnings: s.TotalEarnings,
			NetProfit:     s.NetProfit,
		})
	}

	sort.Slice(days, func(i, j int) bool {
		return days[i].Date.After(days[j].Date.Time)
	})
	return days, skipped, nil
}

// fetchAll batch-fetches values for keys, fanning the batches out
// concurrently. Result order does not matter; dates are sorted later.
func (r *Repository) fetchAll(ctx context.Context, keys []string) (map[string]string, error) {
	batches := make([][]string, 0, len(keys)/r.batchSize+1)
	for len(keys) > 0 {
		n := min(r.batchSize, len(keys))
		batches = append(batches, keys[:n])
		keys = keys[n:]
	}

	results := make([]map[string]string, len(batches))
	g, ctx := errgroup.WithContext(ctx)
	for i, batch := range batches {
		g.Go(func() error {
			values, err := r.store.MultiGet(ctx, batch)
			if err != nil {
				return fmt.Errorf("fetch %d records: %w", len(batch), err)
			}
			results[i] = values
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	values := make(map[string]string)
	for _, m := range results {
		for k, v := range m {
			values[k] = v
		}
	}
	return values, nil
}

// AddEntry appends a new earning or expense line to the date's record,
// creating the record on first write for that date. The entry id is
// minted here and returned to the caller.
func (r *Repository) AddEntry(ctx context.Context, date core.Date, kind core.EntryKind, amount, note string) (*core.LedgerEntry, error) {
	if err := kind.Validate(); err != nil {
		return nil, err
	}
	parsed, err := core.ParseAmount(amount)
	if err != nil {
		return nil, err
	}

	rec, _, err := r.readRecord(ctx, date)
	if err != nil {
		return nil, err
	}

	entry := core.LedgerEntry{ID: uuid.NewString(), Amount: parsed, Note: note}
	list := rec.Entries(kind)
	*list = append(*list, entry)

	if err := r.writeRecord(ctx, date, rec); err != nil {
		return nil, err
	}
	r.logger.Debug("added entry", "date", date, "kind", kind, "id", entry.ID)
	return &entry, nil
}

// ApplyEdit overwrites the amount and note of one existing entry,
// leaving every other field and the list order untouched. The amount
// is validated before anything is loaded, so a bad amount can never
// mutate state; a missing entry id leaves the stored value
// byte-identical and reports core.ErrEntryNotFound.
func (r *Repository) ApplyEdit(ctx context.Context, date core.Date, entryID string, kind core.EntryKind, amount, note string) error {
	if err := kind.Validate(); err != nil {
		return err
	}
	parsed, err := core.ParseAmount(amount)
	if err != nil {
		return err
	}

	rec, ok, err := r.readRecord(ctx, date)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("edit day %s: %w", date, core.ErrEntryNotFound)
	}

	list := rec.Entries(kind)
	idx := -1
	for i := range *list {
		if (*list)[i].ID == entryID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("edit day %s, %s entry %s: %w", date, kind, entryID, core.ErrEntryNotFound)
	}
	(*list)[idx].Amount = parsed
	(*list)[idx].Note = note

	return r.writeRecord(ctx, date, rec)
}

// SetMeters overwrites the day's odometer readings and fuel cost,
// preserving both entry lists. Like AddEntry it creates the record on
// first write.
func (r *Repository) SetMeters(ctx context.Context, date core.Date, startOdometer, endOdometer, fuelCostPerKm decimal.Decimal) error {
	rec, _, err := r.readRecord(ctx, date)
	if err != nil {
		return err
	}
	rec.StartOdometer = startOdometer
	rec.EndOdometer = endOdometer
	rec.FuelCostPerKm = fuelCostPerKm
	return r.writeRecord(ctx, date, rec)
}

// DeleteDay removes the date's record entirely. Deleting a date that
// was never written is still a success.
func (r *Repository) DeleteDay(ctx context.Context, date core.Date) error {
	if err := r.store.Remove(ctx, dayKey(date)); err != nil {
		return fmt.Errorf("delete day %s: %w", date, err)
	}
	r.logger.Info("deleted day record", "date", date)
	return nil
}

// readRecord loads and decodes the full record for an edit flow. The
// bool reports whether a record existed; an absent record decodes to
// the zero value so add flows can start from it.
func (r *Repository) readRecord(ctx context.Context, date core.Date) (core.DayRecord, bool, error) {
	raw, ok, err := r.store.Get(ctx, dayKey(date))
	if err != nil {
		return core.DayRecord{}, false, fmt.Errorf("read day %s: %w", date, err)
	}
	if !ok {
		return core.DayRecord{}, false, nil
	}
	rec, err := DecodeDayRecord(raw)
	if err != nil {
		return core.DayRecord{}, false, fmt.Errorf("read day %s: %w", date, err)
	}
	return rec, true, nil
}

// writeRecord encodes and stores the whole record in one Set, so a
// reader never observes a partially applied edit.
func (r *Repository) writeRecord(ctx context.Context, date core.Date, rec core.DayRecord) error {
	raw, err := EncodeDayRecord(rec)
	if err != nil {
		return fmt.Errorf("write day %s: %w", date, err)
	}
	if err := r.store.Set(ctx, dayKey(date), raw); err != nil {
		return fmt.Errorf("write day %s: %w", date, err)
	}
	return nil
}
