// Package gateway turns a game's touches into external representations:
// CSV text, a PDF report, or rows in a relational database.
package gateway

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/warriorsbball/painttouch/internal/painttouch"
)

// Header is the fixed CSV column order.
var Header = []string{"id", "possession", "type", "timestamp", "note"}

// ExportCSV writes records as CSV, header first, in the given order.
func ExportCSV(w io.Writer, records []painttouch.TouchRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{r.ID, r.Possession, r.Type, r.Timestamp.UTC().Format(time.RFC3339Nano), r.Note}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// CSV returns records as CSV text.
func CSV(records []painttouch.TouchRecord) (string, error) {
	var b strings.Builder
	if err := ExportCSV(&b, records); err != nil {
		return "", err
	}
	return b.String(), nil
}

// ParseCSV reads CSV produced by ExportCSV. Seq is assigned from row order.
func ParseCSV(r io.Reader) ([]painttouch.TouchRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Header)

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, &painttouch.ValidationError{Field: "csv", Reason: "missing header"}
	}
	if err != nil {
		return nil, &painttouch.ValidationError{Field: "csv", Reason: err.Error()}
	}
	if !slices.Equal(header, Header) {
		return nil, &painttouch.ValidationError{Field: "csv", Reason: "unexpected header " + strings.Join(header, ",")}
	}

	records := []painttouch.TouchRecord{}
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &painttouch.ValidationError{Field: "csv", Reason: err.Error()}
		}
		ts, err := time.Parse(time.RFC3339Nano, row[3])
		if err != nil {
			return nil, &painttouch.ValidationError{
				Field:  "timestamp",
				Reason: fmt.Sprintf("row %d: %v", len(records)+1, err),
			}
		}
		records = append(records, painttouch.TouchRecord{
			ID:         row[0],
			Seq:        len(records) + 1,
			Possession: row[1],
			Type:       row[2],
			Timestamp:  ts,
			Note:       row[4],
		})
	}
	return records, nil
}

// Filename returns the download name for a game's export.
func Filename(game painttouch.Game, ext string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			return r
		case r == ' ' || r == '_':
			return '_'
		}
		return -1
	}, game.Name)
	if name == "" {
		name = "game"
	}
	return fmt.Sprintf("%s_%s.%s", name, game.Date, ext)
}
