package testutil

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/sheeranchan/nifty-backend/internal/models"
	"github.com/sheeranchan/nifty-backend/internal/repository"
)

// TempRepo creates a PriceRepo rooted in a fresh temp directory and drives
// the bootstrap gate until the dataset file exists and is ready to serve.
func TempRepo(t *testing.T) *repository.PriceRepo {
	t.Helper()

	dir := filepath.Join(t.TempDir(), "data")
	repo := repository.NewPriceRepo(dir, "nifty50_all.csv")

	for i := 0; i < 3; i++ {
		err := repo.Bootstrap()
		if err == nil {
			return repo
		}
		if !errors.Is(err, repository.ErrDirMissing) && !errors.Is(err, repository.ErrFileMissing) {
			t.Fatalf("bootstrap: %v", err)
		}
	}
	t.Fatal("bootstrap gate never became ready")
	return nil
}

// Seed appends records to the dataset, bypassing the ingestion pipeline.
func Seed(t *testing.T, repo *repository.PriceRepo, records ...models.PriceRecord) {
	t.Helper()

	err := repo.Update(func(table []models.PriceRecord) ([]models.PriceRecord, error) {
		return append(table, records...), nil
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
}

// Ptr returns a pointer to v, for building records with optional fields.
func Ptr(v float64) *float64 { return &v }
