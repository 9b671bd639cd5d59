package ledger

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"kazanc/internal/core"
	"kazanc/internal/log"
	"kazanc/internal/storage"
)

func newTestRepo(t *testing.T) (*Repository, *storage.Memory) {
	t.Helper()
	store := storage.NewMemory()
	return NewRepository(store, log.New("test", "error"), 2), store
}

func mustDate(t *testing.T, s string) core.Date {
	t.Helper()
	d, err := core.ParseDate(s)
	if err != nil {
		t.Fatalf("parse date %s: %v", s, err)
	}
	return d
}

func TestLoadDayAbsent(t *testing.T) {
	repo, _ := newTestRepo(t)

	summary, err := repo.LoadDay(context.Background(), mustDate(t, "2024-01-02"))
	if err != nil {
		t.Fatalf("absent day must not be an error, got %v", err)
	}
	if summary != nil {
		t.Fatalf("absent day must yield nil summary, got %+v", summary)
	}
}

func TestLoadDayMalformed(t *testing.T) {
	repo, store := newTestRepo(t)
	ctx := context.Background()
	_ = store.Set(ctx, "kazanc:data_2024-01-02", "{corrupt")

	_, err := repo.LoadDay(ctx, mustDate(t, "2024-01-02"))
	if !errors.Is(err, core.ErrMalformedRecord) {
		t.Fatalf("error = %v, want ErrMalformedRecord", err)
	}
}

func TestAddEntryThenLoadDay(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	date := mustDate(t, "2024-01-02")

	entry, err := repo.AddEntry(ctx, date, core.Earnings, "500", "airport run")
	if err != nil {
		t.Fatalf("add entry: %v", err)
	}
	if entry.ID == "" {
		t.Fatal("added entry must carry a generated id")
	}
	if _, err := repo.AddEntry(ctx, date, core.ExtraExpenses, "30", ""); err != nil {
		t.Fatalf("add expense: %v", err)
	}
	if err := repo.SetMeters(ctx, date, dec("100"), dec("250"), dec("2")); err != nil {
		t.Fatalf("set meters: %v", err)
	}

	summary, err := repo.LoadDay(ctx, date)
	if err != nil {
		t.Fatalf("load day: %v", err)
	}
	if summary == nil {
		t.Fatal("day must exist after writes")
	}
	if !summary.NetProfit.Equal(dec("170")) {
		t.Errorf("netProfit = %v, want 170", summary.NetProfit)
	}
	if len(summary.Earnings) != 1 || summary.Earnings[0].ID != entry.ID {
		t.Errorf("earnings = %+v, want the added entry", summary.Earnings)
	}
}

func TestAddEntryInvalidAmountLeavesStoreEmpty(t *testing.T) {
	repo, store := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.AddEntry(ctx, mustDate(t, "2024-01-02"), core.Earnings, "12x", "")
	if !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("error = %v, want ErrInvalidAmount", err)
	}
	keys, _ := store.Keys(ctx, "")
	if len(keys) != 0 {
		t.Errorf("rejected amount must not create a record, found keys %v", keys)
	}
}

func TestApplyEdit(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	date := mustDate(t, "2024-01-02")

	entry, err := repo.AddEntry(ctx, date, core.Earnings, "500", "old note")
	if err != nil {
		t.Fatalf("add entry: %v", err)
	}
	if err := repo.ApplyEdit(ctx, date, entry.ID, core.Earnings, "120,50", "new note"); err != nil {
		t.Fatalf("apply edit: %v", err)
	}

	summary, err := repo.LoadDay(ctx, date)
	if err != nil {
		t.Fatalf("load day: %v", err)
	}
	got := summary.Earnings[0]
	if !got.Amount.Equal(dec("120.50")) {
		t.Errorf("amount = %v, want 120.50 (comma input)", got.Amount)
	}
	if got.Note != "new note" {
		t.Errorf("note = %q, want new note", got.Note)
	}
	if got.ID != entry.ID {
		t.Errorf("id changed on edit: %q -> %q", entry.ID, got.ID)
	}
}

func TestApplyEditNotFoundLeavesRecordUntouched(t *testing.T) {
	repo, store := newTestRepo(t)
	ctx := context.Background()
	date := mustDate(t, "2024-01-02")

	if _, err := repo.AddEntry(ctx, date, core.Earnings, "500", ""); err != nil {
		t.Fatalf("add entry: %v", err)
	}
	before, _, _ := store.Get(ctx, "kazanc:data_2024-01-02")

	err := repo.ApplyEdit(ctx, date, "no-such-id", core.Earnings, "1", "")
	if !errors.Is(err, core.ErrEntryNotFound) {
		t.Fatalf("error = %v, want ErrEntryNotFound", err)
	}

	after, _, _ := store.Get(ctx, "kazanc:data_2024-01-02")
	if before != after {
		t.Errorf("record changed on failed edit:\nbefore %s\nafter  %s", before, after)
	}
}

func TestApplyEditAbsentDay(t *testing.T) {
	repo, _ := newTestRepo(t)
	err := repo.ApplyEdit(context.Background(), mustDate(t, "2024-01-02"), "a", core.Earnings, "1", "")
	if !errors.Is(err, core.ErrEntryNotFound) {
		t.Fatalf("error = %v, want ErrEntryNotFound", err)
	}
}

func TestApplyEditInvalidAmountBeforeMutation(t *testing.T) {
	repo, store := newTestRepo(t)
	ctx := context.Background()
	date := mustDate(t, "2024-01-02")

	entry, err := repo.AddEntry(ctx, date, core.ExtraExpenses, "30", "")
	if err != nil {
		t.Fatalf("add entry: %v", err)
	}
	before, _, _ := store.Get(ctx, "kazanc:data_2024-01-02")

	if err := repo.ApplyEdit(ctx, date, entry.ID, core.ExtraExpenses, "nope", ""); !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("error = %v, want ErrInvalidAmount", err)
	}

	after, _, _ := store.Get(ctx, "kazanc:data_2024-01-02")
	if before != after {
		t.Error("record changed despite rejected amount")
	}
}

func TestDeleteDayIdempotent(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	date := mustDate(t, "2024-01-02")

	if _, err := repo.AddEntry(ctx, date, core.Earnings, "10", ""); err != nil {
		t.Fatalf("add entry: %v", err)
	}
	if err := repo.DeleteDay(ctx, date); err != nil {
		t.Fatalf("delete: %v", err)
	}
	// Deleting a date that no longer exists still succeeds.
	if err := repo.DeleteDay(ctx, date); err != nil {
		t.Fatalf("repeat delete: %v", err)
	}

	summary, err := repo.LoadDay(ctx, date)
	if err != nil {
		t.Fatalf("load after delete must not error, got %v", err)
	}
	if summary != nil {
		t.Errorf("load after delete = %+v, want absent", summary)
	}
}

func TestLoadAllDaysSortedDescending(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	for _, d := range []string{"2024-01-01", "2024-01-03", "2024-01-02"} {
		if _, err := repo.AddEntry(ctx, mustDate(t, d), core.Earnings, "10", ""); err != nil {
			t.Fatalf("add entry for %s: %v", d, err)
		}
	}

	days, skipped, err := repo.LoadAllDays(ctx)
	if err != nil {
		t.Fatalf("load all: %v", err)
	}
	if skipped != 0 {
		t.Errorf("skipped = %d, want 0", skipped)
	}
	want := []string{"2024-01-03", "2024-01-02", "2024-01-01"}
	if len(days) != len(want) {
		t.Fatalf("got %d days, want %d", len(days), len(want))
	}
	for i, w := range want {
		if days[i].Date.String() != w {
			t.Errorf("days[%d] = %s, want %s", i, days[i].Date, w)
		}
	}
}

func TestLoadAllDaysSkipsAndCountsCorrupt(t *testing.T) {
	repo, store := newTestRepo(t)
	ctx := context.Background()

	if _, err := repo.AddEntry(ctx, mustDate(t, "2024-01-01"), core.Earnings, "10", ""); err != nil {
		t.Fatalf("add entry: %v", err)
	}
	_ = store.Set(ctx, "kazanc:data_2024-01-02", "{corrupt")
	// A foreign key under the namespace is also excluded, not fatal.
	_ = store.Set(ctx, "kazanc:data_banana", "{}")

	days, skipped, err := repo.LoadAllDays(ctx)
	if err != nil {
		t.Fatalf("corrupt records must not fail the listing: %v", err)
	}
	if skipped != 2 {
		t.Errorf("skipped = %d, want 2", skipped)
	}
	if len(days) != 1 || days[0].Date.String() != "2024-01-01" {
		t.Errorf("days = %+v, want only 2024-01-01", days)
	}
}

func TestLoadAllDaysIgnoresForeignKeys(t *testing.T) {
	repo, store := newTestRepo(t)
	ctx := context.Background()
	_ = store.Set(ctx, "other-app:data_2024-01-01", "{}")

	days, skipped, err := repo.LoadAllDays(ctx)
	if err != nil {
		t.Fatalf("load all: %v", err)
	}
	if len(days) != 0 || skipped != 0 {
		t.Errorf("keys outside the namespace must be invisible, got days=%v skipped=%d", days, skipped)
	}
}

// failingKV simulates an unavailable store.
type failingKV struct{}

func (failingKV) Get(context.Context, string) (string, bool, error) {
	return "", false, fmt.Errorf("%w: boom", storage.ErrUnavailable)
}
func (failingKV) Set(context.Context, string, string) error {
	return fmt.Errorf("%w: boom", storage.ErrUnavailable)
}
func (failingKV) Remove(context.Context, string) error {
	return fmt.Errorf("%w: boom", storage.ErrUnavailable)
}
func (failingKV) Keys(context.Context, string) ([]string, error) {
	return nil, fmt.Errorf("%w: boom", storage.ErrUnavailable)
}
func (failingKV) MultiGet(context.Context, []string) (map[string]string, error) {
	return nil, fmt.Errorf("%w: boom", storage.ErrUnavailable)
}

func TestStoreFailuresPropagate(t *testing.T) {
	repo := NewRepository(failingKV{}, log.New("test", "error"), 0)
	ctx := context.Background()
	date := mustDate(t, "2024-01-02")

	if _, err := repo.LoadDay(ctx, date); !errors.Is(err, storage.ErrUnavailable) {
		t.Errorf("LoadDay error = %v, want ErrUnavailable", err)
	}
	if _, _, err := repo.LoadAllDays(ctx); !errors.Is(err, storage.ErrUnavailable) {
		t.Errorf("LoadAllDays error = %v, want ErrUnavailable", err)
	}
	if _, err := repo.AddEntry(ctx, date, core.Earnings, "1", ""); !errors.Is(err, storage.ErrUnavailable) {
		t.Errorf("AddEntry error = %v, want ErrUnavailable", err)
	}
	if err := repo.DeleteDay(ctx, date); !errors.Is(err, storage.ErrUnavailable) {
		t.Errorf("DeleteDay error = %v, want ErrUnavailable", err)
	}
}
