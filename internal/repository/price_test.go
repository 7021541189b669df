package repository_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sheeranchan/nifty-backend/internal/dates"
	"github.com/sheeranchan/nifty-backend/internal/models"
	"github.com/sheeranchan/nifty-backend/internal/repository"
	"github.com/sheeranchan/nifty-backend/internal/testutil"
)

func TestBootstrapGate(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	repo := repository.NewPriceRepo(dir, "nifty50_all.csv")

	// First call creates the directory and reports it was missing.
	if err := repo.Bootstrap(); !errors.Is(err, repository.ErrDirMissing) {
		t.Fatalf("expected ErrDirMissing, got %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("directory not created: %v", err)
	}

	// Second call creates the dataset file.
	if err := repo.Bootstrap(); !errors.Is(err, repository.ErrFileMissing) {
		t.Fatalf("expected ErrFileMissing, got %v", err)
	}

	// Third call: ready.
	if err := repo.Bootstrap(); err != nil {
		t.Fatalf("expected ready gate, got %v", err)
	}

	// Fresh file holds exactly the header row.
	raw, err := os.ReadFile(filepath.Join(dir, "nifty50_all.csv"))
	if err != nil {
		t.Fatalf("read dataset: %v", err)
	}
	if strings.TrimSpace(string(raw)) != "Date,Symbol,Close,Open,High,Low" {
		t.Fatalf("unexpected file content: %q", raw)
	}
}

func TestUpdateAndLoadRoundTrip(t *testing.T) {
	repo := testutil.TempRepo(t)

	rec := models.PriceRecord{
		Date:   dates.New(2023, time.May, 1),
		Symbol: "SBIN",
		Open:   testutil.Ptr(100),
		High:   testutil.Ptr(102),
		Low:    testutil.Ptr(99),
		Close:  testutil.Ptr(101),
	}
	testutil.Seed(t, repo, rec)

	got, err := repo.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 record, got %d", len(got))
	}
	r := got[0]
	if r.Date.Storage() != "2023-05-01" || r.Symbol != "SBIN" {
		t.Fatalf("key mismatch: %s %s", r.Date, r.Symbol)
	}
	if *r.Open != 100 || *r.High != 102 || *r.Low != 99 || *r.Close != 101 {
		t.Fatalf("field mismatch: %+v", r)
	}
}

func TestNullFieldsSerializeAsEmptyCells(t *testing.T) {
	repo := testutil.TempRepo(t)

	testutil.Seed(t, repo, models.PriceRecord{
		Date:   dates.New(2023, time.May, 2),
		Symbol: "SBIN",
		Close:  testutil.Ptr(101.5),
	})

	got, err := repo.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	r := got[0]
	if r.Open != nil || r.High != nil || r.Low != nil {
		t.Fatalf("expected nil fields, got %+v", r)
	}
	if r.Close == nil || *r.Close != 101.5 {
		t.Fatalf("Close mismatch: %v", r.Close)
	}
}

func TestColumnOrder(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	repo := repository.NewPriceRepo(dir, "prices.csv")
	for repo.Bootstrap() != nil {
	}

	testutil.Seed(t, repo, models.PriceRecord{
		Date:   dates.New(2023, time.May, 1),
		Symbol: "SBIN",
		Open:   testutil.Ptr(100),
		High:   testutil.Ptr(102),
		Low:    testutil.Ptr(99),
		Close:  testutil.Ptr(101),
	})

	raw, err := os.ReadFile(filepath.Join(dir, "prices.csv"))
	if err != nil {
		t.Fatalf("read dataset: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header + 1 row, got %d lines", len(lines))
	}
	if lines[1] != "2023-05-01,SBIN,101,100,102,99" {
		t.Fatalf("row layout mismatch: %q", lines[1])
	}
}

func TestUpdateErrorLeavesFileUntouched(t *testing.T) {
	repo := testutil.TempRepo(t)
	testutil.Seed(t, repo, models.PriceRecord{
		Date:   dates.New(2023, time.May, 1),
		Symbol: "SBIN",
		Open:   testutil.Ptr(100),
	})

	boom := errors.New("boom")
	err := repo.Update(func(table []models.PriceRecord) ([]models.PriceRecord, error) {
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected callback error, got %v", err)
	}

	got, err := repo.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected table unchanged, got %d records", len(got))
	}
}

func TestLoadEmptyDataset(t *testing.T) {
	repo := testutil.TempRepo(t)

	got, err := repo.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty table, got %d records", len(got))
	}
}
