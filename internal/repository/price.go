package repository

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/sheeranchan/nifty-backend/internal/dates"
	"github.com/sheeranchan/nifty-backend/internal/models"
)

// Column order of the dataset file. Close precedes Open for compatibility
// with the historical nifty50 CSV export.
var header = []string{"Date", "Symbol", "Close", "Open", "High", "Low"}

const fileMode = 0o660

var (
	// ErrDirMissing is reported by the call that lazily created the data
	// directory. The dataset becomes usable on a later call.
	ErrDirMissing = errors.New("data directory not found")
	// ErrFileMissing is the same signal for the dataset file itself.
	ErrFileMissing = errors.New("dataset file not found")
)

// PriceRepo owns the dataset file; no other component touches it. The
// mutex serializes the read-modify-rewrite cycle so concurrent ingestions
// cannot interleave between load and persist.
type PriceRepo struct {
	mu   sync.Mutex
	dir  string
	path string
}

func NewPriceRepo(dir, file string) *PriceRepo {
	return &PriceRepo{dir: dir, path: filepath.Join(dir, file)}
}

// Bootstrap runs the lazy-creation gate: a missing directory or dataset
// file is created (at most one per call) and reported via ErrDirMissing or
// ErrFileMissing. A nil return means the dataset is ready to serve.
func (r *PriceRepo) Bootstrap() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := os.Stat(r.dir); os.IsNotExist(err) {
		if err := os.MkdirAll(r.dir, 0o750); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}
		return ErrDirMissing
	}
	if _, err := os.Stat(r.path); os.IsNotExist(err) {
		f, err := os.OpenFile(r.path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, fileMode)
		if err != nil {
			return fmt.Errorf("create dataset file: %w", err)
		}
		defer f.Close()

		w := csv.NewWriter(f)
		if err := w.Write(header); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
		return ErrFileMissing
	}
	return nil
}

// Ping reports whether the dataset file is reachable.
func (r *PriceRepo) Ping() error {
	_, err := os.Stat(r.path)
	return err
}

// Load reads the full dataset into memory.
func (r *PriceRepo) Load() ([]models.PriceRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load()
}

// Update applies fn to the full in-memory table and rewrites the file with
// whatever fn returns. The lock is held across the whole cycle, so an
// ingestion sees a stable table and either commits in full or not at all:
// any error from fn leaves the file untouched.
func (r *PriceRepo) Update(fn func(table []models.PriceRecord) ([]models.PriceRecord, error)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	table, err := r.load()
	if err != nil {
		return err
	}
	updated, err := fn(table)
	if err != nil {
		return err
	}
	return r.persist(updated)
}

func (r *PriceRepo) load() ([]models.PriceRecord, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	records := make([]models.PriceRecord, 0, len(rows)-1)
	for i, row := range rows[1:] { // rows[0] is the header
		rec, err := decodeRow(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// persist rewrites the entire file, header included. The dataset is a
// table, not a log: every mutation is a full overwrite.
func (r *PriceRepo) persist(records []models.PriceRecord) error {
	f, err := os.OpenFile(r.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, fileMode)
	if err != nil {
		return fmt.Errorf("open dataset for rewrite: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, rec := range records {
		if err := w.Write(encodeRow(rec)); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush dataset: %w", err)
	}
	return nil
}

// --- row codecs ---

func decodeRow(row []string) (models.PriceRecord, error) {
	if len(row) != len(header) {
		return models.PriceRecord{}, fmt.Errorf("want %d columns, got %d", len(header), len(row))
	}

	d, err := dates.ParseStorage(row[0])
	if err != nil {
		return models.PriceRecord{}, err
	}

	rec := models.PriceRecord{Date: d, Symbol: row[1]}
	for i, dst := range []**float64{&rec.Close, &rec.Open, &rec.High, &rec.Low} {
		v, err := parseCell(row[2+i])
		if err != nil {
			return models.PriceRecord{}, fmt.Errorf("column %s: %w", header[2+i], err)
		}
		*dst = v
	}
	return rec, nil
}

func encodeRow(rec models.PriceRecord) []string {
	return []string{
		rec.Date.Storage(),
		rec.Symbol,
		formatCell(rec.Close),
		formatCell(rec.Open),
		formatCell(rec.High),
		formatCell(rec.Low),
	}
}

// An empty cell is the null sentinel for a suppressed price value.
func parseCell(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func formatCell(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
