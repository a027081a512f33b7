// Package gridio reads raw extractor grids and writes the clean-grid and
// sidecar artifacts the presentation layer consumes.
package gridio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"soltab/internal/domain"
)

// ReadGrid parses one raw CSV grid into a RawTable. Ragged rows are kept
// as-is; the pipeline pads and flags them.
func ReadGrid(r io.Reader, sourceID string, page, index int) (*domain.RawTable, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = false

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading grid %s: %w", sourceID, err)
	}
	return &domain.RawTable{
		SourceID: sourceID,
		Page:     page,
		Index:    index,
		Rows:     rows,
	}, nil
}

// Extractor filenames carry page and table indices: <stem>_p<page>_t<idx>.csv.
var pageTableRe = regexp.MustCompile(`_p(\d+)_t(\d+)$`)

// ReadGridFile reads a raw grid from disk, deriving the source identifier
// and page/table indices from the filename.
func ReadGridFile(path string) (*domain.RawTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening grid file: %w", err)
	}
	defer func() { _ = f.Close() }()

	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	page, index := 0, 0
	if m := pageTableRe.FindStringSubmatch(stem); m != nil {
		page, _ = strconv.Atoi(m[1])
		index, _ = strconv.Atoi(m[2])
		stem = strings.TrimSuffix(stem, m[0])
	}
	return ReadGrid(f, stem, page, index)
}

// ReadGridDir reads every .csv grid in a directory, sorted by name so runs
// are reproducible.
func ReadGridDir(dir string) ([]*domain.RawTable, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading grid directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	tables := make([]*domain.RawTable, 0, len(names))
	for _, name := range names {
		t, err := ReadGridFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return tables, nil
}
