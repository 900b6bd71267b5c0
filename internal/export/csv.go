// Package export renders the session's transactions for downstream tools.
// CSV is the interchange format; JSON mirrors the in-memory shape.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"billbuddy/statements/internal/logging"
	"billbuddy/statements/internal/models"

	"github.com/gocarina/gocsv"
)

// csvRow is the flattened CSV shape of one transaction.
type csvRow struct {
	Date       string `csv:"Date"`
	Merchant   string `csv:"Merchant"`
	Amount     string `csv:"Amount"`
	Currency   string `csv:"Currency"`
	Category   string `csv:"Category"`
	Type       string `csv:"Type"`
	Provenance string `csv:"Provenance"`
	PaidBy     string `csv:"PaidBy"`
	GroupID    string `csv:"GroupID"`
	Reference  string `csv:"Reference"`
	Notes      string `csv:"Notes"`
}

const dateLayout = "2006-01-02"

func toRow(tx models.Transaction) csvRow {
	row := csvRow{
		Merchant:   tx.Merchant,
		Amount:     tx.Amount.StringFixed(2),
		Currency:   tx.Currency,
		Category:   tx.Category,
		Type:       string(tx.Type),
		Provenance: string(tx.Provenance),
		PaidBy:     tx.PaidBy,
		GroupID:    tx.GroupID,
		Reference:  tx.Reference,
		Notes:      tx.Notes,
	}
	if !tx.Date.IsZero() {
		row.Date = tx.Date.Format(dateLayout)
	}
	return row
}

// WriteCSV writes non-deleted transactions to w.
func WriteCSV(w io.Writer, txs []models.Transaction, delimiter rune) error {
	rows := make([]csvRow, 0, len(txs))
	for _, tx := range txs {
		if tx.Deleted {
			continue
		}
		rows = append(rows, toRow(tx))
	}

	writer := csv.NewWriter(w)
	writer.Comma = delimiter
	if err := gocsv.MarshalCSV(&rows, gocsv.NewSafeCSVWriter(writer)); err != nil {
		return fmt.Errorf("writing CSV: %w", err)
	}
	return nil
}

// WriteCSVFile writes non-deleted transactions to a file, creating parent
// directories as needed.
func WriteCSVFile(path string, txs []models.Transaction, delimiter rune, log logging.Logger) error {
	if log == nil {
		log = logging.GetLogger()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating CSV file: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Warn("Failed to close CSV file",
				logging.Field{Key: logging.FieldFile, Value: path})
		}
	}()

	if err := WriteCSV(f, txs, delimiter); err != nil {
		return err
	}

	log.Info("Wrote transactions to CSV",
		logging.Field{Key: logging.FieldFile, Value: path},
		logging.Field{Key: logging.FieldCount, Value: len(txs)})
	return nil
}
