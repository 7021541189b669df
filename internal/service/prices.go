package service

import (
	"errors"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/sheeranchan/nifty-backend/internal/apperr"
	"github.com/sheeranchan/nifty-backend/internal/dates"
	"github.com/sheeranchan/nifty-backend/internal/models"
	"github.com/sheeranchan/nifty-backend/internal/repository"
	"github.com/sheeranchan/nifty-backend/internal/screen"
)

// PriceService runs the ingestion pipeline and the query engine over the
// price repository.
type PriceService struct {
	repo *repository.PriceRepo
}

func New(repo *repository.PriceRepo) *PriceService {
	return &PriceService{repo: repo}
}

// Ingest validates, screens and persists one batch of records.
//
// The two validation failure modes are deliberately asymmetric: a record
// with a malformed or absent date is dropped silently and the batch
// continues, while an empty symbol, a duplicate (symbol, date) pair or a
// deviation-screen rejection aborts the whole request. An aborted batch
// persists nothing; the rewrite happens once, after the loop.
func (s *PriceService) Ingest(batch []models.IngestRecord) error {
	if err := s.gate(); err != nil {
		return err
	}

	return s.repo.Update(func(table []models.PriceRecord) ([]models.PriceRecord, error) {
		for _, raw := range batch {
			d, err := dates.ParseWire(raw.Date)
			if err != nil {
				log.Debug().Str("date", raw.Date).Msg("skipping record with malformed date")
				continue
			}

			symbol := strings.ToUpper(raw.Symbol)
			if symbol == "" {
				return nil, apperr.BadRequest("Symbol Not Found")
			}

			if hasRecord(table, symbol, d) {
				return nil, apperr.Forbidden("Updating or Repetitive Price Data is Forbidden")
			}

			rec := models.PriceRecord{
				Date:   d,
				Symbol: symbol,
				Open:   raw.Open,
				High:   raw.High,
				Low:    raw.Low,
				Close:  raw.Close,
			}
			if err := screen.Apply(table, &rec); err != nil {
				return nil, err
			}

			// Later records in the same batch are validated and screened
			// against earlier ones.
			table = append(table, rec)
		}
		return table, nil
	})
}

// Query returns the records for symbol, newest first, optionally limited
// to one calendar year.
func (s *PriceService) Query(symbol, year string) ([]models.PriceRecord, error) {
	sym := strings.ToUpper(symbol)
	if sym == "" {
		return nil, apperr.BadRequest("Symbol Not Found")
	}

	byYear := year != ""
	var wantYear int
	if byYear {
		n, err := strconv.Atoi(year)
		if err != nil || n < 0 || !allDigits(year) {
			return nil, apperr.BadRequest("Invalid Year Is Given")
		}
		wantYear = n
	}

	if err := s.gate(); err != nil {
		return nil, err
	}
	table, err := s.repo.Load()
	if err != nil {
		return nil, err
	}

	var out []models.PriceRecord
	for _, rec := range table {
		if rec.Symbol != sym {
			continue
		}
		if byYear && rec.Date.Year() != wantYear {
			continue
		}
		out = append(out, rec)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[j].Date.Before(out[i].Date) })

	if len(out) == 0 {
		if byYear {
			return nil, apperr.BadRequest("No Data For The Specified Year")
		}
		return nil, apperr.BadRequest("Request Data Not Found")
	}
	return out, nil
}

// Ping reports whether the dataset file is reachable, for health checks.
func (s *PriceService) Ping() error {
	return s.repo.Ping()
}

// gate runs the lazy-creation bootstrap on every call; the call that
// created a missing directory or file answers 404 instead of serving data.
func (s *PriceService) gate() error {
	switch err := s.repo.Bootstrap(); {
	case errors.Is(err, repository.ErrDirMissing):
		return apperr.NotFound("Directory Not Found")
	case errors.Is(err, repository.ErrFileMissing):
		return apperr.NotFound("Requested File Not Found")
	default:
		return err
	}
}

func hasRecord(table []models.PriceRecord, symbol string, d dates.Date) bool {
	for i := range table {
		if table[i].Symbol == symbol && table[i].Date.Equal(d) {
			return true
		}
	}
	return false
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
