// Package output renders command results as a table, JSON or CSV on stdout.
package output

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/itchyny/gojq"
)

// Format is an output format.
type Format string

const (
	// FormatTable is aligned, human-readable columns (default).
	FormatTable Format = "table"
	// FormatJSON is indented JSON.
	FormatJSON Format = "json"
	// FormatCSV is comma-separated values with a header row.
	FormatCSV Format = "csv"
)

// Formats lists the accepted format names.
var Formats = []string{string(FormatTable), string(FormatJSON), string(FormatCSV)}

// ParseFormat converts a string to a Format. Empty means FormatTable.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatTable, "":
		return FormatTable, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatCSV:
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("invalid output format %q (expected %s)", s, strings.Join(Formats, "|"))
	}
}

// Table is the tabular rendering of a result.
type Table struct {
	// Title lines precede the table in table format only.
	Title   []string
	Headers []string
	Rows    [][]string
	// Empty is printed instead of the table when there are no rows.
	Empty string
}

// Result pairs structured data for JSON with its tabular rendering.
type Result struct {
	Data  any
	Table Table
}

// Option configures a Printer.
type Option func(*Printer)

// WithQuery filters JSON output through a jq expression.
func WithQuery(query string) Option {
	return func(p *Printer) {
		p.query = strings.TrimSpace(query)
	}
}

// Printer writes results in one format.
type Printer struct {
	w      io.Writer
	format Format
	query  string
	code   *gojq.Code
}

// NewPrinter creates a Printer. A jq query is compiled up front and is only
// accepted with FormatJSON.
func NewPrinter(w io.Writer, format Format, opts ...Option) (*Printer, error) {
	p := &Printer{w: w, format: format}
	for _, opt := range opts {
		opt(p)
	}

	if p.query != "" {
		if p.format != FormatJSON {
			return nil, errors.New("--jq requires --output json")
		}
		parsed, err := gojq.Parse(p.query)
		if err != nil {
			return nil, fmt.Errorf("invalid --jq expression: %w", err)
		}
		code, err := gojq.Compile(parsed)
		if err != nil {
			return nil, fmt.Errorf("invalid --jq expression: %w", err)
		}
		p.code = code
	}

	return p, nil
}

// Format returns the configured format.
func (p *Printer) Format() Format {
	return p.format
}

// Print writes r in the configured format.
func (p *Printer) Print(r Result) error {
	switch p.format {
	case FormatJSON:
		if p.code != nil {
			return p.printQuery(r.Data)
		}
		return p.printJSON(r.Data)
	case FormatCSV:
		return p.printCSV(r.Table)
	case FormatTable:
		return p.printTable(r.Table)
	default:
		return fmt.Errorf("unsupported format: %s", p.format)
	}
}

func (p *Printer) printJSON(data any) error {
	enc := json.NewEncoder(p.w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func (p *Printer) printQuery(data any) error {
	normalized, err := normalize(data)
	if err != nil {
		return fmt.Errorf("query error: %w", err)
	}

	iter := p.code.Run(normalized)
	for {
		v, ok := iter.Next()
		if !ok {
			return nil
		}
		if err, isErr := v.(error); isErr {
			var haltErr *gojq.HaltError
			if errors.As(err, &haltErr) && haltErr.Value() == nil {
				return nil
			}
			return fmt.Errorf("query error: %w", err)
		}
		if err := p.printJSON(v); err != nil {
			return err
		}
	}
}

// normalize converts data to the map/slice form gojq operates on.
func normalize(data any) (any, error) {
	buf, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode data: %w", err)
	}
	var out any
	if err := json.Unmarshal(buf, &out); err != nil {
		return nil, fmt.Errorf("failed to decode data: %w", err)
	}
	return out, nil
}

func (p *Printer) printCSV(t Table) error {
	w := csv.NewWriter(p.w)
	if len(t.Headers) > 0 {
		if err := w.Write(t.Headers); err != nil {
			return err
		}
	}
	if err := w.WriteAll(t.Rows); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

func (p *Printer) printTable(t Table) error {
	if len(t.Rows) == 0 && t.Empty != "" {
		_, err := fmt.Fprintln(p.w, t.Empty)
		return err
	}

	for _, line := range t.Title {
		if _, err := fmt.Fprintln(p.w, line); err != nil {
			return err
		}
	}

	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	if len(t.Headers) > 0 {
		headers := make([]string, len(t.Headers))
		for i, h := range t.Headers {
			headers[i] = strings.ToUpper(h)
		}
		_, _ = fmt.Fprintln(tw, strings.Join(headers, "\t"))
	}
	for _, row := range t.Rows {
		_, _ = fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}
