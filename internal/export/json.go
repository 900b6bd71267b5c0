package export

import (
	"encoding/json"
	"fmt"
	"io"

	"billbuddy/statements/internal/models"
	"billbuddy/statements/internal/parsererror"
)

// WriteJSON renders any result value as indented JSON. The field names
// follow the struct tags on the models package.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("writing JSON: %w", err)
	}
	return nil
}

// DecodeTransactions reads transactions from JSON. Both a bare array and
// the parse result envelope (an object with a "transactions" field) are
// accepted.
func DecodeTransactions(data []byte) ([]models.Transaction, error) {
	var txs []models.Transaction
	if err := json.Unmarshal(data, &txs); err == nil {
		return txs, nil
	}

	var envelope struct {
		Transactions []models.Transaction `json:"transactions"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, &parsererror.ParseError{
			Parser: "export",
			Field:  "transactions",
			Value:  preview(data),
			Err:    err,
		}
	}
	return envelope.Transactions, nil
}

// preview truncates a payload for error messages.
func preview(data []byte) string {
	const max = 40
	s := string(data)
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
