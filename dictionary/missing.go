package dictionary

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// missingHeader matches the hand-completion format: the last column is left
// empty for the translator to fill in.
var missingHeader = []string{"resource_id", "language_id", "english_name", "translation"}

// MissingFileName returns the on-disk name for a category's missing-
// translations report, e.g. "missing-item-it.csv".
func MissingFileName(category, lang string) string {
	return "missing-" + category + "-" + lang + ".csv"
}

// WriteMissing writes the missing-translations report for one category,
// replacing any previous report. Nothing missing removes a stale report so
// the directory only lists categories that still have gaps.
func WriteMissing(path string, rows []Missing) error {
	if len(rows) == 0 {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing stale report: %w", err)
		}
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating report: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(missingHeader); err != nil {
		return fmt.Errorf("writing report header: %w", err)
	}
	for _, r := range rows {
		record := []string{
			strconv.Itoa(r.ResourceID),
			strconv.Itoa(r.LanguageID),
			r.EnglishName,
			"",
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("writing report row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}
