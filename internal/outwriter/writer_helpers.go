package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/huangsam/marquee/internal/contract"
	"github.com/huangsam/marquee/internal/logger"
)

// writeWithFile runs writer against outputFile, or stdout when outputFile is empty.
// Writes to a file are reported on the log, never on stdout.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	if file == os.Stdout {
		return writer(file)
	}

	werr := writer(file)
	cerr := file.Close()
	if werr != nil {
		return werr
	}
	if cerr != nil {
		return fmt.Errorf("close %s: %w", outputFile, cerr)
	}
	logger.Named("outwriter").Info().Str("path", outputFile).Msg(successMsg)
	return nil
}

// writeJSON encodes data with two-space indentation.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVWithHeader writes header, then lets writeRows emit the records.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)

	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	if err := writeRows(csvWriter); err != nil {
		return err
	}
	csvWriter.Flush()
	return csvWriter.Error()
}

// writeIndexedCSV writes the report layout: an unnamed leading column holding the
// zero-based row number, followed by columns. row returns the cells of record i.
func writeIndexedCSV(w io.Writer, columns []string, n int, row func(i int) ([]string, error)) error {
	header := append([]string{""}, columns...)
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		rec := make([]string, 0, len(header))
		for i := 0; i < n; i++ {
			cells, err := row(i)
			if err != nil {
				return err
			}
			rec = append(rec[:0], strconv.Itoa(i))
			rec = append(rec, cells...)
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
