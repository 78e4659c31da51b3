package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/frontdesk/visitor-dashboard/internal/visitor"
)

// printJSON marshals v as indented JSON and writes it to stdout.
func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printVisitorTable prints one page of visitors as a formatted table.
func printVisitorTable(res *visitor.ListResult) error {
	if len(res.Visitors) == 0 {
		fmt.Println("No visitors found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(w, "NAME\tTYPE\tHOST\tPURPOSE\tENTRY"); err != nil {
		return fmt.Errorf("writing table header: %w", err)
	}
	if _, err := fmt.Fprintln(w, "----\t----\t----\t-------\t-----"); err != nil {
		return fmt.Errorf("writing table separator: %w", err)
	}

	for _, v := range res.Visitors {
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			truncate(v.Name, 30), v.Type, truncate(v.Host, 20),
			truncate(v.Purpose, 30), formatEntryTime(v.EntryTime)); err != nil {
			return fmt.Errorf("writing table row: %w", err)
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing table: %w", err)
	}

	p := res.Pagination
	fmt.Printf("\nPage %d of %d (%d visitors total)\n", p.Current, p.Pages, p.Total)
	return nil
}

// printStats prints the dashboard statistics in text format.
func printStats(stats *visitor.StatsResult) {
	fmt.Printf("Total:   %d\n", stats.TotalVisitors)
	fmt.Printf("Today:   %d\n", stats.TodayVisitors)
	fmt.Printf("Weekly:  %d\n", stats.WeeklyVisitors)
	fmt.Printf("Monthly: %d\n", stats.MonthlyVisitors)

	if len(stats.TypeStats) > 0 {
		fmt.Println("\nBy type:")
		for _, g := range stats.TypeStats {
			fmt.Printf("  %-20s %d\n", g.ID, g.Count)
		}
	}

	if len(stats.TopHosts) > 0 {
		fmt.Println("\nTop hosts:")
		for _, g := range stats.TopHosts {
			fmt.Printf("  %-20s %d\n", g.ID, g.Count)
		}
	}
}

// printVisitorCSV writes visitors as CSV to stdout.
func printVisitorCSV(visitors []visitor.Display) error {
	w := csv.NewWriter(os.Stdout)

	header := []string{"Name", "Type", "CNIC", "Email", "Phone", "Host", "Purpose", "EntryTime"}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	for _, v := range visitors {
		row := []string{v.Name, v.Type, v.CNIC, v.Email, v.Phone, v.Host, v.Purpose, formatEntryTime(v.EntryTime)}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}
	return nil
}

// formatEntryTime renders an entry time for display, "-" when absent.
func formatEntryTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

// truncate shortens a string to maxLen, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
