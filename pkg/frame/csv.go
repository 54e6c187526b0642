package frame

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"

	"github.com/tablescope/tablescope/pkg/errors"
)

// CSVOptions controls CSV loading.
type CSVOptions struct {
	// Delimiter defaults to ','
	Delimiter rune
	// MissingTokens are treated as nulls in addition to the defaults
	// ("", "NA", "NaN", "null", "NULL")
	MissingTokens []string
}

// defaultMissingTokens are the cell values recognized as missing.
var defaultMissingTokens = []string{"", "NA", "NaN", "null", "NULL"}

// timeLayouts are tried in order during type inference.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ReadCSV loads a CSV file into a frame, inferring a column type from the
// non-missing cells: int, then float, then bool, then timestamp, falling
// back to string. Files ending in .gz are transparently decompressed.
func ReadCSV(path string, opts CSVOptions) (*Frame, error) {
	file, err := os.Open(path) //nolint:gosec // G304: path is caller-controlled
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to open CSV file")
	}
	defer file.Close()

	var reader io.Reader = file
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(file)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to open gzip stream")
		}
		defer gz.Close()
		reader = gz
	}

	return ParseCSV(reader, opts)
}

// ParseCSV reads CSV data from r. The first record is the header.
func ParseCSV(r io.Reader, opts CSVOptions) (*Frame, error) {
	cr := csv.NewReader(r)
	if opts.Delimiter != 0 {
		cr.Comma = opts.Delimiter
	}
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to read CSV header")
	}

	raw := make([][]string, len(header))
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to read CSV record")
		}
		for j := range header {
			raw[j] = append(raw[j], record[j])
		}
	}

	missing := make(map[string]struct{}, len(defaultMissingTokens)+len(opts.MissingTokens))
	for _, tok := range defaultMissingTokens {
		missing[tok] = struct{}{}
	}
	for _, tok := range opts.MissingTokens {
		missing[tok] = struct{}{}
	}

	cols := make([]Column, len(header))
	for j, name := range header {
		cols[j] = inferColumn(name, raw[j], missing)
	}
	return New(cols...)
}

// WriteCSV writes the frame to a CSV file, rendering nulls as empty cells.
// Files ending in .gz are gzip-compressed.
func WriteCSV(f *Frame, path string) error {
	file, err := os.Create(path) //nolint:gosec // G304: path is caller-controlled
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to create CSV file")
	}
	defer file.Close()

	var writer io.Writer = file
	var gz *gzip.Writer
	if strings.HasSuffix(path, ".gz") {
		gz = gzip.NewWriter(file)
		defer gz.Close()
		writer = gz
	}

	cw := csv.NewWriter(writer)
	if err := cw.Write(f.Names()); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to write CSV header")
	}

	record := make([]string, f.NumCols())
	for i := 0; i < f.NumRows(); i++ {
		for j, c := range f.Columns() {
			record[j] = c.Render(i)
		}
		if err := cw.Write(record); err != nil {
			return errors.Wrap(err, errors.ErrorTypeFile, "failed to write CSV record")
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to flush CSV output")
	}
	if gz != nil {
		if err := gz.Close(); err != nil {
			return errors.Wrap(err, errors.ErrorTypeFile, "failed to finish gzip stream")
		}
	}
	return nil
}

// inferColumn picks the narrowest type that parses every non-missing cell.
func inferColumn(name string, cells []string, missing map[string]struct{}) Column {
	valid := make([]bool, len(cells))
	present := make([]string, 0, len(cells))
	for i, cell := range cells {
		trimmed := strings.TrimSpace(cell)
		if _, isMissing := missing[trimmed]; isMissing {
			continue
		}
		valid[i] = true
		present = append(present, trimmed)
	}

	if tryAll(present, isInt) {
		values := make([]int64, len(cells))
		for i, cell := range cells {
			if valid[i] {
				values[i], _ = strconv.ParseInt(strings.TrimSpace(cell), 10, 64)
			}
		}
		return NewIntColumn(name, values, valid)
	}

	if tryAll(present, isFloat) {
		values := make([]float64, len(cells))
		for i, cell := range cells {
			if valid[i] {
				values[i], _ = strconv.ParseFloat(strings.TrimSpace(cell), 64)
			}
		}
		return NewFloatColumn(name, values, valid)
	}

	if len(present) > 0 && tryAll(present, isBool) {
		values := make([]bool, len(cells))
		for i, cell := range cells {
			if valid[i] {
				values[i] = parseBool(strings.TrimSpace(cell))
			}
		}
		return NewBoolColumn(name, values, valid)
	}

	if layout, ok := timeLayout(present); ok {
		values := make([]time.Time, len(cells))
		for i, cell := range cells {
			if valid[i] {
				values[i], _ = time.Parse(layout, strings.TrimSpace(cell))
			}
		}
		return NewTimeColumn(name, values, valid)
	}

	values := make([]string, len(cells))
	for i, cell := range cells {
		if valid[i] {
			values[i] = strings.TrimSpace(cell)
		}
	}
	return NewStringColumn(name, values, valid)
}

func tryAll(cells []string, pred func(string) bool) bool {
	if len(cells) == 0 {
		return false
	}
	for _, c := range cells {
		if !pred(c) {
			return false
		}
	}
	return true
}

func isInt(s string) bool {
	_, err := strconv.ParseInt(s, 10, 64)
	return err == nil
}

func isFloat(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

func isBool(s string) bool {
	switch strings.ToLower(s) {
	case "true", "false":
		return true
	}
	return false
}

func parseBool(s string) bool {
	return strings.EqualFold(s, "true")
}

// timeLayout returns the first layout that parses every cell.
func timeLayout(cells []string) (string, bool) {
	if len(cells) == 0 {
		return "", false
	}
	for _, layout := range timeLayouts {
		ok := true
		for _, c := range cells {
			if _, err := time.Parse(layout, c); err != nil {
				ok = false
				break
			}
		}
		if ok {
			return layout, true
		}
	}
	return "", false
}
