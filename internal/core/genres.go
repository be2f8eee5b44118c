package core

import (
	_ "embed"
	"fmt"
	"strconv"
	"sync"

	"gopkg.in/yaml.v3"

	"cinedex-backend-go/internal/models"
	"cinedex-backend-go/internal/tmdb"
)

//go:embed genres.yaml
var filterCatalogueYAML []byte

// FilterCatalogue holds the selectable movie list filters and the genre id to
// name table used when mapping listings.
type FilterCatalogue struct {
	Genres          []models.GenreOption `yaml:"genres"`
	YearRanges      []string             `yaml:"year_ranges"`
	FirstSingleYear int                  `yaml:"first_single_year"`
	RatingFloors    []int                `yaml:"rating_floors"`

	mu    sync.RWMutex
	names map[int]string
}

// LoadFilterCatalogue parses the embedded catalogue.
func LoadFilterCatalogue() (*FilterCatalogue, error) {
	return parseFilterCatalogue(filterCatalogueYAML)
}

func parseFilterCatalogue(data []byte) (*FilterCatalogue, error) {
	var fc FilterCatalogue
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse filter catalogue: %w", err)
	}
	for _, tok := range fc.YearRanges {
		if _, err := ParseYearToken(tok); err != nil {
			return nil, fmt.Errorf("filter catalogue: %w", err)
		}
	}
	fc.names = make(map[int]string, len(fc.Genres))
	for _, g := range fc.Genres {
		fc.names[g.ID] = g.Name
	}
	return &fc, nil
}

// Years lists the year tokens: the fixed ranges, then every single year up to currentYear.
func (fc *FilterCatalogue) Years(currentYear int) []string {
	years := append([]string(nil), fc.YearRanges...)
	for y := fc.FirstSingleYear; y <= currentYear; y++ {
		years = append(years, strconv.Itoa(y))
	}
	return years
}

// Options builds the filter payload for the given year.
func (fc *FilterCatalogue) Options(currentYear int) models.FilterOptions {
	return models.FilterOptions{
		Genres:  append([]models.GenreOption(nil), fc.Genres...),
		Years:   fc.Years(currentYear),
		Ratings: append([]int(nil), fc.RatingFloors...),
	}
}

// Names maps genre ids to names, dropping unknown ids.
func (fc *FilterCatalogue) Names(ids []int) []string {
	fc.mu.RLock()
	defer fc.mu.RUnlock()
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if name, ok := fc.names[id]; ok {
			out = append(out, name)
		}
	}
	return out
}

// Learn adds vendor genre names for ids the catalogue does not list.
// Names already in the catalogue win.
func (fc *FilterCatalogue) Learn(genres []tmdb.Genre) int {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	added := 0
	for _, g := range genres {
		if _, ok := fc.names[g.ID]; ok || g.Name == "" {
			continue
		}
		fc.names[g.ID] = g.Name
		added++
	}
	return added
}
