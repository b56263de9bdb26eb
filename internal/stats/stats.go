// Package stats answers the catalog's aggregate questions over a funko snapshot.
package stats

import (
	"sort"
	"strings"

	"funko-catalog-api/internal/models"
)

// MostExpensive returns the funko with the highest price, or nil for an empty slice.
func MostExpensive(funkos []models.Funko) *models.Funko {
	if len(funkos) == 0 {
		return nil
	}
	best := funkos[0]
	for _, f := range funkos[1:] {
		if f.Price > best.Price {
			best = f
		}
	}
	return &best
}

// AveragePrice returns the mean price, 0 when there are no funkos.
func AveragePrice(funkos []models.Funko) float64 {
	if len(funkos) == 0 {
		return 0
	}
	var total float64
	for _, f := range funkos {
		total += f.Price
	}
	return total / float64(len(funkos))
}

// GroupByModel buckets funkos by model.
func GroupByModel(funkos []models.Funko) map[models.Model][]models.Funko {
	groups := make(map[models.Model][]models.Funko)
	for _, f := range funkos {
		groups[f.Model] = append(groups[f.Model], f)
	}
	return groups
}

// CountByModel counts funkos per model.
func CountByModel(funkos []models.Funko) map[models.Model]int {
	counts := make(map[models.Model]int)
	for _, f := range funkos {
		counts[f.Model]++
	}
	return counts
}

// ReleasedIn returns the funkos released in year, ordered by release date.
func ReleasedIn(funkos []models.Funko, year int) []models.Funko {
	out := make([]models.Funko, 0)
	for _, f := range funkos {
		if f.ReleaseYear() == year {
			out = append(out, f)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ReleaseDate.Before(out[j].ReleaseDate)
	})
	return out
}

// WithNamePrefix returns the funkos whose name starts with prefix.
func WithNamePrefix(funkos []models.Funko, prefix string) []models.Funko {
	out := make([]models.Funko, 0)
	for _, f := range funkos {
		if strings.HasPrefix(f.Name, prefix) {
			out = append(out, f)
		}
	}
	return out
}

// Summary bundles every aggregate for one snapshot.
type Summary struct {
	Total          int                  `json:"total"`
	MostExpensive  *models.Funko        `json:"mostExpensive,omitempty"`
	AveragePrice   float64              `json:"averagePrice"`
	CountByModel   map[models.Model]int `json:"countByModel"`
	ReleasedInYear []models.Funko       `json:"releasedInYear,omitempty"`
	Year           int                  `json:"year,omitempty"`
	NamePrefix     string               `json:"namePrefix,omitempty"`
	PrefixCount    int                  `json:"prefixCount"`
}

// Summarize computes a Summary. year and prefix are optional (0 and "" skip them).
func Summarize(funkos []models.Funko, year int, prefix string) Summary {
	s := Summary{
		Total:         len(funkos),
		MostExpensive: MostExpensive(funkos),
		AveragePrice:  AveragePrice(funkos),
		CountByModel:  CountByModel(funkos),
		Year:          year,
		NamePrefix:    prefix,
	}
	if year != 0 {
		s.ReleasedInYear = ReleasedIn(funkos, year)
	}
	if prefix != "" {
		s.PrefixCount = len(WithNamePrefix(funkos, prefix))
	}
	return s
}
