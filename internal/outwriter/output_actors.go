package outwriter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/huangsam/marquee/internal/contract"
	"github.com/huangsam/marquee/internal/parquet"
	"github.com/huangsam/marquee/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintActorResults outputs the ranking, dispatching based on the output format configured.
func PrintActorResults(actors []schema.RankedActor, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, actors)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeActorsCSV(w, actors)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if cfg.OutputFile == "" {
			return errors.New("parquet output requires --output-file")
		}
		if err := parquet.WriteRankedActorsParquet(parquet.ConvertRankedActors(actors), cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
		fmt.Fprintf(os.Stderr, "💾 Wrote Parquet to %s\n", cfg.OutputFile)
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeActorsTable(actors, cfg, duration, w)
		}, "Wrote table")
	}
	return nil
}

// writeActorsCSV writes the ranking in CSV format.
func writeActorsCSV(w io.Writer, actors []schema.RankedActor) error {
	header := []string{"rank", schema.ColPersonID, "participations", schema.ColPrimaryName}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, a := range actors {
			rec := []string{
				strconv.Itoa(a.Rank),
				a.PersonID,
				strconv.Itoa(a.Participations),
				a.PrimaryName,
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeActorsTable generates and writes the human-readable table.
func writeActorsTable(actors []schema.RankedActor, cfg *contract.Config, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Rank", "Name", "Credits", "ID"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	nameWidth := GetMaxTableNameWidth(cfg)
	var data [][]string
	total := 0
	for _, a := range actors {
		total += a.Participations
		data = append(data, []string{
			contract.Colorize(contract.RankColor, strconv.Itoa(a.Rank), cfg.UseColors),
			contract.Colorize(contract.NameColor, contract.TruncateName(a.PrimaryName, nameWidth), cfg.UseColors),
			contract.Colorize(contract.CountColor, strconv.Itoa(a.Participations), cfg.UseColors),
			a.PersonID,
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Showing top %d actors (total credits: %d)\n", len(actors), total); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Ranking completed in %v over the last %d years. Tie-break: %s\n", duration.Round(time.Millisecond), cfg.Years, cfg.TieBreak); err != nil {
		return err
	}
	return nil
}
