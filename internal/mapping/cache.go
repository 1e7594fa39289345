// Package mapping resolves shade swatches and respondent categories from
// the two reference CSVs that accompany the measurement datasets.
//
// Lookups go through an explicit Cache owned by the caller: each file is
// parsed at most once per Cache unless Reload is requested. Reload is not
// safe to run concurrently with in-flight lookups; concurrent lookups on a
// loaded cache are read-only and fine.
package mapping

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
)

// Category is a respondent's hair tone group. It selects which shade-number
// column of the swatch mapping applies.
type Category string

const (
	CategoryDark   Category = "dark"
	CategoryMedium Category = "medium"
	CategoryLight  Category = "light"
)

// Valid reports whether the category is one of the three known groups.
func (c Category) Valid() bool {
	return c == CategoryDark || c == CategoryMedium || c == CategoryLight
}

// RespondentInfo is the reference data held for one respondent.
type RespondentInfo struct {
	HairTone        Category
	SkinToneCluster string
}

// SwatchRef identifies the swatch image for a shade within a category.
type SwatchRef struct {
	Name     string
	Category Category
	Filename string
}

type shadeEntry struct {
	name    string
	numbers map[Category]string // normalised shade number per category
}

// Cache loads and serves the swatch and category mappings.
type Cache struct {
	shadesPath   string
	categoryPath string

	loaded bool
	shades []shadeEntry
	byResp map[string]RespondentInfo
}

// New creates a Cache over the two mapping files. Nothing is read until
// the first lookup or an explicit Load.
func New(shadesPath, categoryPath string) *Cache {
	return &Cache{shadesPath: shadesPath, categoryPath: categoryPath}
}

// Load parses both mapping files. Calling Load on an already loaded cache
// is a no-op; use Reload to force a re-read.
func (c *Cache) Load() error {
	if c.loaded {
		return nil
	}
	return c.Reload()
}

// Reload re-reads both mapping files, replacing any previously loaded
// state.
func (c *Cache) Reload() error {
	shades, err := loadShades(c.shadesPath)
	if err != nil {
		return fmt.Errorf("shades mapping: %w", err)
	}
	byResp, err := loadCategories(c.categoryPath)
	if err != nil {
		return fmt.Errorf("category mapping: %w", err)
	}

	c.shades = shades
	c.byResp = byResp
	c.loaded = true
	return nil
}

// Category returns the hair tone group for a respondent.
func (c *Cache) Category(respondentID string) (Category, error) {
	info, err := c.RespondentInfo(respondentID)
	if err != nil {
		return "", err
	}
	return info.HairTone, nil
}

// RespondentInfo returns the reference data for a respondent.
func (c *Cache) RespondentInfo(respondentID string) (RespondentInfo, error) {
	if err := c.Load(); err != nil {
		return RespondentInfo{}, err
	}
	info, ok := c.byResp[normaliseKey(respondentID)]
	if !ok {
		return RespondentInfo{}, fmt.Errorf("no category entry for respondent %q", respondentID)
	}
	return info, nil
}

// SwatchName returns the swatch name for a shade number within a category.
func (c *Cache) SwatchName(shadeID string, cat Category) (string, error) {
	if err := c.Load(); err != nil {
		return "", err
	}
	if !cat.Valid() {
		return "", fmt.Errorf("invalid category %q (must be dark, medium or light)", cat)
	}

	want := normaliseKey(shadeID)
	for _, entry := range c.shades {
		if entry.numbers[cat] == want {
			return entry.name, nil
		}
	}
	return "", fmt.Errorf("no swatch mapping for shade %q in category %q", shadeID, cat)
}

// Swatch performs the two-step lookup: respondent to category, then shade
// number within that category to the swatch name.
func (c *Cache) Swatch(respondentID, shadeID string) (SwatchRef, error) {
	cat, err := c.Category(respondentID)
	if err != nil {
		return SwatchRef{}, err
	}
	name, err := c.SwatchName(shadeID, cat)
	if err != nil {
		return SwatchRef{}, err
	}
	return SwatchRef{
		Name:     name,
		Category: cat,
		Filename: fmt.Sprintf("%s_%s.png", shadeID, name),
	}, nil
}

// Shade number columns of the swatch mapping file.
var numberColumns = map[Category]string{
	CategoryLight:  "Number_light",
	CategoryMedium: "Number_medium",
	CategoryDark:   "Number_dark",
}

const swatchNameColumn = "Name_gcp_with_numberbyL"

func loadShades(path string) ([]shadeEntry, error) {
	header, records, err := readMappingCSV(path)
	if err != nil {
		return nil, err
	}

	nameIdx, ok := header[swatchNameColumn]
	if !ok {
		return nil, fmt.Errorf("missing column %q", swatchNameColumn)
	}

	var entries []shadeEntry
	for _, record := range records {
		if nameIdx >= len(record) {
			continue
		}
		entry := shadeEntry{
			name:    strings.TrimSpace(record[nameIdx]),
			numbers: make(map[Category]string, len(numberColumns)),
		}
		for cat, col := range numberColumns {
			if i, ok := header[col]; ok && i < len(record) {
				if v := normaliseKey(record[i]); v != "" {
					entry.numbers[cat] = v
				}
			}
		}
		if entry.name != "" {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

func loadCategories(path string) (map[string]RespondentInfo, error) {
	header, records, err := readMappingCSV(path)
	if err != nil {
		return nil, err
	}

	respIdx, ok := header["RESP_FINAL"]
	if !ok {
		return nil, fmt.Errorf("missing column \"RESP_FINAL\"")
	}
	catIdx, ok := header["CATEGORY"]
	if !ok {
		return nil, fmt.Errorf("missing column \"CATEGORY\"")
	}
	a1rIdx, hasA1R := header["A1R"]

	byResp := make(map[string]RespondentInfo, len(records))
	for _, record := range records {
		if respIdx >= len(record) || catIdx >= len(record) {
			continue
		}
		key := normaliseKey(record[respIdx])
		if key == "" {
			continue
		}
		info := RespondentInfo{
			HairTone: Category(strings.ToLower(strings.TrimSpace(record[catIdx]))),
		}
		if hasA1R && a1rIdx < len(record) {
			info.SkinToneCluster = strings.TrimSpace(record[a1rIdx])
		}
		byResp[key] = info
	}
	return byResp, nil
}

// readMappingCSV reads a mapping file, detecting whether it is comma or
// semicolon separated (the reference files ship in both forms). Returns a
// header index and the data records.
func readMappingCSV(path string) (map[string]int, [][]string, error) {
	data, err := os.ReadFile(path) // #nosec G304 - caller-specified mapping file, intended to be read
	if err != nil {
		return nil, nil, err
	}

	cr := csv.NewReader(strings.NewReader(string(data)))
	cr.Comma = detectSeparator(data)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("empty mapping file")
	}

	header := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		header[strings.TrimSpace(name)] = i
	}
	return header, records[1:], nil
}

func detectSeparator(data []byte) rune {
	line, _, _ := strings.Cut(string(data), "\n")
	if strings.Count(line, ";") > strings.Count(line, ",") {
		return ';'
	}
	return ','
}

// normaliseKey trims a lookup key and folds integral float forms so that
// "1001", "1001.0" and " 1001 " all match. Fractional numbers such as
// shade "6.3" are kept as written: 6.1 and 6.3 are different shades.
func normaliseKey(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == math.Trunc(f) && !math.IsInf(f, 0) {
		return strconv.Itoa(int(f))
	}
	return s
}
