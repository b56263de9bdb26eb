// Package importer loads funkos from the catalog's CSV export format:
//
//	COD,NOMBRE,MODELO,PRECIO,FECHA_LANZAMIENTO
//	3b6c6f58-7c6b-434b-82ab-01b2d6e4434a,Doctor Who Tardis,OTROS,42.99,2023-01-05
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"funko-catalog-api/internal/logging"
	"funko-catalog-api/internal/models"
)

const columns = 5

// RowError reports a line that could not be turned into a funko.
type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// Read parses every data row in r. Rows that fail to parse are collected in the
// returned error (joined RowErrors) while the good rows are still returned.
func Read(r io.Reader) ([]models.Funko, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = columns
	reader.TrimLeadingSpace = true

	var (
		funkos []models.Funko
		errs   []error
	)
	line := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) && errors.Is(perr.Err, csv.ErrFieldCount) {
				errs = append(errs, &RowError{Line: line, Err: err})
				continue
			}
			return funkos, fmt.Errorf("read csv: %w", err)
		}
		if line == 1 && isHeader(record) {
			continue
		}

		f, err := parseRecord(record)
		if err != nil {
			errs = append(errs, &RowError{Line: line, Err: err})
			continue
		}
		funkos = append(funkos, f)
	}
	return funkos, errors.Join(errs...)
}

// ReadFile opens path and parses it with Read.
func ReadFile(path string) ([]models.Funko, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv %s: %w", path, err)
	}
	defer file.Close()
	return Read(file)
}

func isHeader(record []string) bool {
	return strings.EqualFold(strings.TrimSpace(record[0]), "COD")
}

func parseRecord(record []string) (models.Funko, error) {
	model, err := models.ParseModel(record[2])
	if err != nil {
		return models.Funko{}, err
	}
	price, err := strconv.ParseFloat(strings.TrimSpace(record[3]), 64)
	if err != nil {
		return models.Funko{}, fmt.Errorf("invalid price %q: %w", record[3], err)
	}
	released, err := models.ParseDate(record[4])
	if err != nil {
		return models.Funko{}, err
	}
	return models.Funko{
		ID:          strings.TrimSpace(record[0]),
		Name:        strings.TrimSpace(record[1]),
		Model:       model,
		Price:       price,
		ReleaseDate: released,
	}, nil
}

// Saver stores one funko; FunkoService satisfies it.
type Saver interface {
	Save(ctx context.Context, f models.Funko) (*models.Funko, error)
}

// Result counts what an import did.
type Result struct {
	Saved  int
	Failed int
}

// Import saves every funko through s, logging and counting failures instead of
// stopping at the first one.
func Import(ctx context.Context, s Saver, funkos []models.Funko) Result {
	log := logging.FromContext(ctx)

	var res Result
	for _, f := range funkos {
		if err := ctx.Err(); err != nil {
			res.Failed += len(funkos) - res.Saved - res.Failed
			break
		}
		if _, err := s.Save(ctx, f); err != nil {
			res.Failed++
			log.Warn().Err(err).Str("funko_id", f.ID).Str("name", f.Name).Msg("funko not imported")
			continue
		}
		res.Saved++
	}
	log.Info().Int("saved", res.Saved).Int("failed", res.Failed).Msg("import finished")
	return res
}
