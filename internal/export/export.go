// Package export writes enriched series as CSV or JSON, one record per bar.
// Indicators without enough history are written as "undefined".
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"MarketAdvisor/internal/model"
)

// Undefined marks an indicator value with insufficient history.
const Undefined = "undefined"

// Format selects the output encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat accepts "csv" or "json", case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unknown export format %q (use csv or json)", s)
	}
}

// Write encodes series in the given format.
func Write(w io.Writer, f Format, series model.EnrichedSeries) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, series)
	case FormatJSON:
		return WriteJSON(w, series)
	default:
		return fmt.Errorf("unknown export format %q", f)
	}
}

func num(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

// Header returns the CSV column names.
func Header() []string {
	h := []string{"time", "open", "high", "low", "close", "volume"}
	for _, ind := range model.AllIndicators {
		h = append(h, string(ind))
	}
	return h
}

// WriteCSV writes a header row followed by one row per bar.
func WriteCSV(w io.Writer, series model.EnrichedSeries) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header()); err != nil {
		return err
	}

	for _, b := range series.Bars {
		row := []string{
			b.Time.UTC().Format(time.RFC3339),
			num(b.Open), num(b.High), num(b.Low), num(b.Close), num(b.Volume),
		}
		for _, ind := range model.AllIndicators {
			if v, ok := b.Value(ind); ok {
				row = append(row, num(v))
			} else {
				row = append(row, Undefined)
			}
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

type jsonDocument struct {
	Symbol   string           `json:"symbol"`
	Strategy string           `json:"strategy"`
	Bars     []map[string]any `json:"bars"`
}

// WriteJSON writes {"symbol", "strategy", "bars": [...]} where each bar maps
// column names to numbers, or to "undefined" for missing indicators.
func WriteJSON(w io.Writer, series model.EnrichedSeries) error {
	doc := jsonDocument{
		Symbol:   series.Symbol,
		Strategy: series.Strategy,
		Bars:     make([]map[string]any, 0, len(series.Bars)),
	}
	for _, b := range series.Bars {
		rec := map[string]any{
			"time":   b.Time.UTC().Format(time.RFC3339),
			"open":   b.Open,
			"high":   b.High,
			"low":    b.Low,
			"close":  b.Close,
			"volume": b.Volume,
		}
		for _, ind := range model.AllIndicators {
			if v, ok := b.Value(ind); ok {
				rec[string(ind)] = v
			} else {
				rec[string(ind)] = Undefined
			}
		}
		doc.Bars = append(doc.Bars, rec)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
