package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// rawRow is the loosely-shaped intermediate between a CSV line and a
// Record. Optional columns stay as strings until validation promotes them.
type rawRow struct {
	id, proper, ra, dec, dist, mag, absmag, spect, variable, x, y, z string
}

// columnMap locates the columns we care about by header name, so the
// parser tolerates datasets that add or reorder columns.
type columnMap map[string]int

func newColumnMap(header []string) (columnMap, error) {
	m := columnMap{}
	for i, name := range header {
		m[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"id", "ra", "dec", "mag"} {
		if _, ok := m[required]; !ok {
			return nil, fmt.Errorf("catalog header missing %q column", required)
		}
	}
	return m, nil
}

func (m columnMap) get(row []string, name string) string {
	i, ok := m[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// ParseCSV reads a header-first CSV dataset and returns the valid records
// plus the number of malformed rows that were skipped. A malformed row is
// never fatal; only an unreadable header is.
func ParseCSV(r io.Reader) ([]Record, int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("read catalog header: %w", err)
	}
	cols, err := newColumnMap(header)
	if err != nil {
		return nil, 0, err
	}

	var (
		records   []Record
		malformed int
	)
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Quoting or field-count damage on a single line.
			malformed++
			continue
		}
		raw := rawRow{
			id:       cols.get(row, "id"),
			proper:   cols.get(row, "proper"),
			ra:       cols.get(row, "ra"),
			dec:      cols.get(row, "dec"),
			dist:     cols.get(row, "dist"),
			mag:      cols.get(row, "mag"),
			absmag:   cols.get(row, "absmag"),
			spect:    cols.get(row, "spect"),
			variable: cols.get(row, "var"),
			x:        cols.get(row, "x"),
			y:        cols.get(row, "y"),
			z:        cols.get(row, "z"),
		}
		rec, ok := raw.promote()
		if !ok {
			malformed++
			continue
		}
		records = append(records, rec)
	}
	return records, malformed, nil
}

// promote validates the required fields and converts the row into a
// Record. Optional fields that fail to parse degrade to zero values
// rather than rejecting the row.
func (r rawRow) promote() (Record, bool) {
	id, err := strconv.Atoi(r.id)
	if err != nil {
		return Record{}, false
	}
	ra, err := strconv.ParseFloat(r.ra, 64)
	if err != nil || ra < 0 || ra >= 24 {
		return Record{}, false
	}
	dec, err := strconv.ParseFloat(r.dec, 64)
	if err != nil || dec < -90 || dec > 90 {
		return Record{}, false
	}
	mag, err := strconv.ParseFloat(r.mag, 64)
	if err != nil {
		return Record{}, false
	}
	dist := parseOptionalFloat(r.dist)
	if dist < 0 {
		return Record{}, false
	}
	return Record{
		ID:         id,
		ProperName: r.proper,
		RA:         ra,
		Dec:        dec,
		Distance:   dist,
		Magnitude:  mag,
		AbsMag:     parseOptionalFloat(r.absmag),
		Spectral:   r.spect,
		IsVariable: r.variable != "",
		X:          parseOptionalFloat(r.x),
		Y:          parseOptionalFloat(r.y),
		Z:          parseOptionalFloat(r.z),
	}, true
}

func parseOptionalFloat(s string) float64 {
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
