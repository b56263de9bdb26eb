package models

import (
	"fmt"
	"strings"
	"time"
)

// Model is the product line a funko belongs to.
type Model string

const (
	ModelMarvel Model = "MARVEL"
	ModelDisney Model = "DISNEY"
	ModelAnime  Model = "ANIME"
	ModelOtros  Model = "OTROS"
)

// Models lists every valid Model in declaration order.
func Models() []Model {
	return []Model{ModelMarvel, ModelDisney, ModelAnime, ModelOtros}
}

// Valid reports whether m is one of the known models.
func (m Model) Valid() bool {
	switch m {
	case ModelMarvel, ModelDisney, ModelAnime, ModelOtros:
		return true
	}
	return false
}

// ParseModel accepts a model name in any case.
func ParseModel(s string) (Model, error) {
	m := Model(strings.ToUpper(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", fmt.Errorf("unknown model %q", s)
	}
	return m, nil
}

// DateLayout is the calendar-date format used in requests, CSV files and backups.
const DateLayout = "2006-01-02"

// Funko represents a collectible in the catalog
type Funko struct {
	ID          string    `json:"id" gorm:"primaryKey" validate:"omitempty,uuid"`
	Name        string    `json:"name" gorm:"not null;index" validate:"notblank,max=255"`
	Model       Model     `json:"model" gorm:"not null" validate:"funko_model"`
	Price       float64   `json:"price" gorm:"not null" validate:"gt=0"`
	ReleaseDate time.Time `json:"releaseDate" gorm:"column:release_date"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TableName specifies the table name for Funko Model
func (Funko) TableName() string {
	return "funkos"
}

// ReleaseYear returns the calendar year of the release date.
func (f Funko) ReleaseYear() int {
	return f.ReleaseDate.Year()
}

func (f Funko) String() string {
	return fmt.Sprintf("Funko{id=%s, name=%q, model=%s, price=%.2f, releaseDate=%s}",
		f.ID, f.Name, f.Model, f.Price, f.ReleaseDate.Format(DateLayout))
}

// ParseDate parses a calendar date, accepting the same layouts the API has always
// accepted, and normalises it to midnight UTC.
func ParseDate(s string) (time.Time, error) {
	layouts := []string{
		DateLayout,    // ISO date
		"2 Jan 2006",  // e.g., 30 Oct 2025
		time.RFC3339,  // full RFC3339
		"02 Jan 2006", // zero-padded day
	}
	s = strings.TrimSpace(s)
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}
