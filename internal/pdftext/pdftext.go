// Package pdftext extracts page text from statement PDFs. The extraction
// strategies downstream depend on one logical record spanning 1-3 physical
// lines, so line breaks must survive extraction; collapsing whitespace here
// would break structural matching.
package pdftext

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"billbuddy/statements/internal/logging"
	"billbuddy/statements/internal/parsererror"

	"github.com/ledongthuc/pdf"
)

// Extract reads a PDF file and returns its pages' text concatenated in
// order, one statement per call. Row-based extraction is tried first for
// its layout fidelity, then the library's plain-text path.
func Extract(filePath string, log logging.Logger) (string, error) {
	if log == nil {
		log = logging.GetLogger()
	}

	pages, err := extractByRow(filePath)
	if err == nil && readable(pages) {
		return strings.Join(pages, "\n"), nil
	}
	if err != nil {
		log.WithError(err).Debug("Row-based PDF extraction failed, trying plain text",
			logging.Field{Key: logging.FieldFile, Value: filePath})
	}

	text, plainErr := extractPlainText(filePath)
	if plainErr == nil && readable([]string{text}) {
		return text, nil
	}

	if err == nil {
		err = plainErr
	}
	if err == nil {
		err = &parsererror.DataExtractionError{
			FilePath:  filePath,
			FieldName: "page text",
			Reason:    "no readable text; the file may be scanned or use undecodable font encodings",
		}
	}
	return "", err
}

func extractByRow(filePath string) (pages []string, err error) {
	// The library panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf reader panic: %v", r)
		}
	}()

	f, r, err := pdf.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		var lines []string
		for _, row := range rows {
			var parts []string
			for _, word := range row.Content {
				parts = append(parts, word.S)
			}
			line := strings.TrimSpace(strings.Join(parts, " "))
			if line != "" {
				lines = append(lines, line)
			}
		}
		pages = append(pages, strings.Join(lines, "\n"))
	}
	return pages, nil
}

func extractPlainText(filePath string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf reader panic: %v", r)
		}
	}()

	f, r, err := pdf.Open(filePath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	reader, err := r.GetPlainText()
	if err != nil {
		return "", err
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// statementWords are expected in any card statement; text containing none
// of them is treated as garbage from a font-encoding failure.
var statementWords = []string{
	"statement", "balance", "transaction", "payment",
	"credit", "amount", "date", "total",
}

// readable rejects short or binary-looking extractions so a garbage decode
// never reaches the parsing cascade.
func readable(pages []string) bool {
	total, ascii := 0, 0
	var sb strings.Builder
	for _, page := range pages {
		sb.WriteString(page)
		for _, r := range page {
			total++
			if r < 128 && (unicode.IsPrint(r) || unicode.IsSpace(r)) {
				ascii++
			}
		}
	}
	if total < 50 || float64(ascii)/float64(total) <= 0.6 {
		return false
	}

	lower := strings.ToLower(sb.String())
	for _, w := range statementWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}
