package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Encodings reported by Read
const (
	EncodingUTF8   = "utf-8"
	EncodingLatin1 = "iso-8859-1"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Row is one data line keyed by header name.
type Row struct {
	Line   int
	values map[string]string
}

// NewRow builds a row from header/value pairs.
func NewRow(line int, values map[string]string) Row {
	return Row{Line: line, values: values}
}

// Get returns the trimmed value of a column, "" when absent.
func (r Row) Get(column string) string {
	return strings.TrimSpace(r.values[column])
}

// Lookup returns the trimmed value and whether the column exists.
func (r Row) Lookup(column string) (string, bool) {
	v, ok := r.values[column]
	return strings.TrimSpace(v), ok
}

// Table is a decoded dataset in file order.
type Table struct {
	Encoding  string
	Delimiter rune
	Header    []string
	Rows      []Row
	Errors    []*ParseError // malformed lines that were skipped
}

// HasColumn reports whether the header contains column.
func (t *Table) HasColumn(column string) bool {
	for _, h := range t.Header {
		if h == column {
			return true
		}
	}
	return false
}

// ReadFile reads and decodes a dataset file.
func ReadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", path, err)
	}
	t, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode dataset %s: %w", path, err)
	}
	return t, nil
}

// Read decodes a dataset from r.
func Read(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// Decode detects encoding and delimiter, then parses the CSV content.
// Valid UTF-8 is kept as is; anything else is taken as ISO-8859-1.
func Decode(data []byte) (*Table, error) {
	encoding := EncodingUTF8
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
		if err != nil {
			return nil, fmt.Errorf("latin-1 decode: %w", err)
		}
		data = decoded
		encoding = EncodingLatin1
	}

	delim := sniffDelimiter(data)
	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = delim
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New("dataset is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	t := &Table{Encoding: encoding, Delimiter: delim, Header: header}
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				t.Errors = append(t.Errors, &ParseError{Line: perr.Line, Err: perr.Err})
				continue
			}
			return nil, err
		}
		if isBlank(record) {
			continue
		}

		line, _ := cr.FieldPos(0)
		values := make(map[string]string, len(header))
		for i, h := range header {
			if i < len(record) {
				values[h] = record[i]
			}
		}
		t.Rows = append(t.Rows, Row{Line: line, values: values})
	}

	return t, nil
}

// sniffDelimiter picks ';' or ',' from the header line.
func sniffDelimiter(data []byte) rune {
	first := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		first = data[:i]
	}
	if bytes.Count(first, []byte{';'}) > bytes.Count(first, []byte{','}) {
		return ';'
	}
	return ','
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
