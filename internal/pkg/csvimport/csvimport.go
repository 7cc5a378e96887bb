// Package csvimport reads header-first, line-oriented CSV uploads into records
// addressed by normalized column name.
package csvimport

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

var (
	ErrEmptyContent = errors.New("file is empty")
	ErrInvalidUTF8  = errors.New("file is not valid UTF-8 text")
)

// MissingColumnsError rejects a whole file whose header lacks required columns.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Columns, ", "))
}

// Record is one data line. Line is its 1-based position among non-empty lines,
// so the first data line after the header is 2.
type Record struct {
	Line   int
	Err    error
	values map[string]string
}

// Get returns the trimmed value of a normalized column, or "" when absent.
func (r Record) Get(column string) string {
	return r.values[column]
}

// Has reports whether the column exists in the header.
func (r Record) Has(column string) bool {
	_, ok := r.values[column]
	return ok
}

type Document struct {
	Columns []string
	Records []Record
}

// NormalizeHeader lower-cases a header cell and collapses every run of
// non-alphanumeric characters into one underscore.
func NormalizeHeader(cell string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(strings.TrimSpace(cell)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}
	return b.String()
}

var (
	oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
	zipMagic = []byte{'P', 'K', 0x03, 0x04}
)

// IsBinarySpreadsheet detects legacy and OOXML Excel workbooks by extension or signature.
func IsBinarySpreadsheet(fileName string, content []byte) bool {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".xls", ".xlsx", ".xlsm", ".xlsb":
		return true
	}
	return bytes.HasPrefix(content, oleMagic) || bytes.HasPrefix(content, zipMagic)
}

// Parse splits content into trimmed non-empty lines, maps the first one as the header
// and returns the remaining lines as records. A header missing any required column
// fails the whole document with *MissingColumnsError.
func Parse(content []byte, required []string) (Document, error) {
	content = bytes.TrimPrefix(content, []byte("\xEF\xBB\xBF"))
	if !utf8.Valid(content) {
		return Document{}, ErrInvalidUTF8
	}

	var lines []string
	for _, line := range strings.Split(string(content), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return Document{}, ErrEmptyContent
	}

	headerCells, err := splitLine(lines[0])
	if err != nil {
		return Document{}, fmt.Errorf("malformed header: %w", err)
	}

	index := make(map[string]int, len(headerCells))
	columns := make([]string, 0, len(headerCells))
	for i, cell := range headerCells {
		name := NormalizeHeader(cell)
		if name == "" {
			continue
		}
		if _, dup := index[name]; !dup {
			index[name] = i
			columns = append(columns, name)
		}
	}

	var missing []string
	for _, col := range required {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return Document{Columns: columns}, &MissingColumnsError{Columns: missing}
	}

	doc := Document{Columns: columns, Records: make([]Record, 0, len(lines)-1)}
	for i, line := range lines[1:] {
		rec := Record{Line: i + 2, values: make(map[string]string, len(index))}
		fields, err := splitLine(line)
		if err != nil {
			rec.Err = fmt.Errorf("malformed row: %w", err)
		}
		for name, pos := range index {
			if pos < len(fields) {
				rec.values[name] = strings.TrimSpace(fields[pos])
			} else {
				rec.values[name] = ""
			}
		}
		doc.Records = append(doc.Records, rec)
	}
	return doc, nil
}

func splitLine(line string) ([]string, error) {
	r := csv.NewReader(strings.NewReader(line))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	return r.Read()
}
