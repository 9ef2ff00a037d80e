// Package loader implements the reference CSV cohort-ingestion
// collaborator: one row per person, with a selection column and a
// flexibility column per active attribute.
package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"cohortsort/internal/catalog"
	"cohortsort/internal/person"
)

// flexibilityColumnSuffix names the flexibility column for an attribute
// "X" as "X Flexibility", matching the original source's CSV header
// convention.
const flexibilityColumnSuffix = " Flexibility"

// ActivateFromHeader inspects path's header row and returns a catalog
// identical to cat except that any currently-inactive attribute whose
// name also appears as a header column is activated. Catalogs are
// immutable, so this builds and returns a new one rather than mutating
// cat.
func ActivateFromHeader(path string, cat *catalog.AttributeCatalog) (*catalog.AttributeCatalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("loader: opening %q: %w", path, err)
	}
	defer f.Close()

	header, err := csv.NewReader(f).Read()
	if err != nil {
		return nil, fmt.Errorf("loader: reading header of %q: %w", path, err)
	}
	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[h] = true
	}

	options := cat.Options()
	active := cat.Active()
	for _, a := range cat.Inactive() {
		if present[a.Name()] {
			active = append(active, a)
		}
	}

	return catalog.NewAttributeCatalog(options, active)
}

// LoadPeopleCSV reads path and builds one person.Person per row. For each
// of cat's active attributes it reads a selection column (named after the
// attribute) and a flexibility column ("<attribute> Flexibility"); an
// empty flexibility cell is treated as unset, not as 0 —
// person.Person.GetFlexibility already defaults an unset attribute to 10.
func LoadPeopleCSV(path string, cat *catalog.AttributeCatalog) ([]*person.Person, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("loader: opening %q: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("loader: reading header of %q: %w", path, err)
	}
	colIdx := make(map[string]int, len(header))
	for i, h := range header {
		colIdx[h] = i
	}

	nameCol, ok := colIdx["name"]
	if !ok {
		return nil, fmt.Errorf("loader: %q: missing required column %q", path, "name")
	}
	idCol, ok := colIdx["identifier"]
	if !ok {
		return nil, fmt.Errorf("loader: %q: missing required column %q", path, "identifier")
	}

	active := cat.Active()

	var people []*person.Person
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("loader: reading %q: %w", path, err)
		}

		id, err := strconv.Atoi(row[idCol])
		if err != nil {
			return nil, fmt.Errorf("loader: %q: invalid identifier %q: %w", path, row[idCol], err)
		}
		p := person.New(row[nameCol], id)

		for _, attr := range active {
			selCol, ok := colIdx[attr.Name()]
			if !ok {
				continue
			}
			if err := p.UpdateSelection(attr, row[selCol]); err != nil {
				return nil, fmt.Errorf("loader: %q: row for %s: %w", path, p.Name, err)
			}

			flexCol, hasFlexCol := colIdx[attr.Name()+flexibilityColumnSuffix]
			if !hasFlexCol || row[flexCol] == "" {
				continue // unset: Person defaults to flexibility 10
			}
			flex, err := strconv.Atoi(row[flexCol])
			if err != nil {
				return nil, fmt.Errorf("loader: %q: row for %s: invalid flexibility %q: %w", path, p.Name, row[flexCol], err)
			}
			if err := p.UpdateFlexibility(attr, flex); err != nil {
				return nil, fmt.Errorf("loader: %q: row for %s: %w", path, p.Name, err)
			}
		}

		people = append(people, p)
	}

	return people, nil
}
