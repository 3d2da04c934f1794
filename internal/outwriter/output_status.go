package outwriter

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/huangsam/marquee/internal/contract"
	"github.com/huangsam/marquee/schema"

	"github.com/olekukonko/tablewriter"
)

const statusTimeFormat = "2006-01-02 15:04:05"

// PrintDatasetList prints the published datasets with their URLs and cache state.
func PrintDatasetList(datasets []schema.DatasetInfo, cfg *contract.Config) error {
	if cfg.Output == schema.JSONOut {
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error { return writeJSON(w, datasets) }, "Wrote JSON")
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		table := tablewriter.NewWriter(w)
		table.Header([]string{"Dataset", "URL", "Cached Today"})
		var data [][]string
		for _, d := range datasets {
			cached := "no"
			if d.Cached {
				cached = contract.Colorize(contract.StatusColor, "yes", cfg.UseColors)
			}
			data = append(data, []string{string(d.Name), d.URL, cached})
		}
		if err := table.Bulk(data); err != nil {
			return err
		}
		return table.Render()
	}, "Wrote table")
}

// PrintCacheStatus prints the dataset cache listing.
func PrintCacheStatus(status schema.CacheStatus, cfg *contract.Config) error {
	if cfg.Output == schema.JSONOut {
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error { return writeJSON(w, status) }, "Wrote JSON")
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		if _, err := fmt.Fprintf(w, "Cache Dir: %s\n", status.Dir); err != nil {
			return err
		}
		if status.TotalFiles == 0 {
			_, err := fmt.Fprintln(w, "No cached datasets.")
			return err
		}
		table := tablewriter.NewWriter(w)
		table.Header([]string{"Dataset", "Date", "Size", "Current"})
		var data [][]string
		for _, e := range status.Entries {
			current := "stale"
			if e.Current {
				current = contract.Colorize(contract.StatusColor, "current", cfg.UseColors)
			}
			data = append(data, []string{e.Dataset, e.Date.Format(time.DateOnly), formatBytes(e.SizeBytes), current})
		}
		if err := table.Bulk(data); err != nil {
			return err
		}
		if err := table.Render(); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w, "Total: %d files (%d current, %d stale), %s\n",
			status.TotalFiles, status.CurrentFiles, status.StaleFiles, formatBytes(status.TotalBytes))
		return err
	}, "Wrote table")
}

// PrintHistoryStatus prints run history status information.
func PrintHistoryStatus(status schema.HistoryStatus, cfg *contract.Config) error {
	if cfg.Output == schema.JSONOut {
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error { return writeJSON(w, status) }, "Wrote JSON")
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		lines := []string{
			fmt.Sprintf("History Backend: %s", status.Backend),
			fmt.Sprintf("Connected: %t", status.Connected),
		}
		if status.Connected {
			lines = append(lines,
				fmt.Sprintf("Schema Version: %d (dirty: %t)", status.SchemaVersion, status.SchemaDirty),
				fmt.Sprintf("Total Runs: %d", status.TotalRuns),
			)
			if status.TotalRuns > 0 {
				lines = append(lines,
					fmt.Sprintf("Last Run ID: %s", status.LastRunID),
					fmt.Sprintf("Last Run: %s", status.LastRunTime.Format(statusTimeFormat)),
					fmt.Sprintf("Oldest Run: %s", status.OldestRunTime.Format(statusTimeFormat)),
					fmt.Sprintf("Total Ranked Actors: %d", status.TotalActors),
					fmt.Sprintf("Total Searches: %d", status.TotalSearches),
				)
			}
			lines = append(lines, "Table Sizes:")
			tables := make([]string, 0, len(status.TableSizes))
			for table := range status.TableSizes {
				tables = append(tables, table)
			}
			sort.Strings(tables)
			for _, table := range tables {
				lines = append(lines, fmt.Sprintf("  %s: %d rows", table, status.TableSizes[table]))
			}
		}
		for _, line := range lines {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
		return nil
	}, "Wrote status")
}

// PrintReportSummary prints the ranking and the per-actor report outcome of a run.
func PrintReportSummary(summary *schema.ReportSummary, cfg *contract.Config, duration time.Duration) error {
	if cfg.Output == schema.JSONOut {
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error { return writeJSON(w, summary) }, "Wrote JSON")
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		reports := make(map[string]schema.ActorReport, len(summary.Reports))
		for _, r := range summary.Reports {
			reports[r.Actor.PersonID] = r
		}

		table := tablewriter.NewWriter(w)
		table.Header([]string{"Rank", "Name", "Credits", "Posts", "Report"})
		nameWidth := GetMaxTableNameWidth(cfg)
		var data [][]string
		for _, a := range summary.Actors {
			posts, path := "-", "-"
			if r, ok := reports[a.PersonID]; ok {
				posts = strconv.Itoa(r.PostCount)
				if r.Path != "" {
					path = r.Path
				}
			}
			data = append(data, []string{
				contract.Colorize(contract.RankColor, strconv.Itoa(a.Rank), cfg.UseColors),
				contract.Colorize(contract.NameColor, contract.TruncateName(a.PrimaryName, nameWidth), cfg.UseColors),
				contract.Colorize(contract.CountColor, strconv.Itoa(a.Participations), cfg.UseColors),
				posts,
				path,
			})
		}
		if err := table.Bulk(data); err != nil {
			return err
		}
		if err := table.Render(); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "Ranking report: %s\n", summary.RankingPath); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w, "Report run completed in %v.\n", duration.Round(time.Millisecond))
		return err
	}, "Wrote summary")
}

// formatBytes renders a byte count with a binary unit suffix.
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
