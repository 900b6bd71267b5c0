// Package parse contains the statement parsing command.
package parse

import (
	"fmt"
	"os"
	"strings"

	"billbuddy/statements/cmd/root"
	"billbuddy/statements/internal/export"
	"billbuddy/statements/internal/logging"
	"billbuddy/statements/internal/pdftext"
	"billbuddy/statements/internal/pipeline"

	"github.com/spf13/cobra"
)

var (
	inputFile  string
	outputFile string
	format     string
)

// Cmd is the parse command.
var Cmd = &cobra.Command{
	Use:   "parse",
	Short: "Extract transactions from a statement PDF or text file.",
	Long: `Parse reads one statement (PDF or already-extracted text), runs the
extraction cascade, and writes the transactions as CSV or JSON.`,
	RunE: run,
}

func init() {
	Cmd.Flags().StringVarP(&inputFile, "input", "i", "", "Statement PDF or text file (required)")
	Cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default stdout)")
	Cmd.Flags().StringVarP(&format, "format", "f", "csv", "Output format: csv or json")
	_ = Cmd.MarkFlagRequired("input")
}

func run(cmd *cobra.Command, args []string) error {
	log := root.Log
	log.Info("Parsing statement",
		logging.Field{Key: logging.FieldFile, Value: inputFile})

	text, err := readStatement(inputFile, log)
	if err != nil {
		return err
	}

	p := pipeline.New(root.NewClassifier(), pipeline.Options{
		Currency: root.Cfg.Statement.Currency,
		Holder:   root.Cfg.Statement.Holder,
	}, log)
	result := p.Process(text)

	if len(result.Transactions) == 0 {
		log.Warn("No transactions extracted; the statement layout may be unsupported")
	}

	switch strings.ToLower(format) {
	case "csv":
		delimiter := []rune(root.Cfg.CSV.Delimiter)[0]
		if outputFile == "" {
			return export.WriteCSV(cmd.OutOrStdout(), result.Transactions, delimiter)
		}
		return export.WriteCSVFile(outputFile, result.Transactions, delimiter, log)
	case "json":
		if outputFile == "" {
			return export.WriteJSON(cmd.OutOrStdout(), result)
		}
		f, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		return export.WriteJSON(f, result)
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}

func readStatement(path string, log logging.Logger) (string, error) {
	if strings.HasSuffix(strings.ToLower(path), ".pdf") {
		return pdftext.Extract(path, log)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading statement text: %w", err)
	}
	return string(data), nil
}
