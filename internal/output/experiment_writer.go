package output

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/olekukonko/tablewriter"
	"github.com/rpgo/glidepath/internal/domain"
)

// WriteExperimentTSV writes the sweep in the tab-separated layout:
// a header line, then one "Testing <Section>:" block per swept variable.
func WriteExperimentTSV(w io.Writer, report *domain.ExperimentReport) error {
	bw := bufio.NewWriter(w)
	total, avg := report.CashFlowHeaders()
	fmt.Fprintf(bw, "Variable\tFinal Balance\t%s\t%s\n", total, avg)
	for _, section := range report.Sections {
		fmt.Fprintf(bw, "\nTesting %s:\n", section.Name)
		for _, row := range section.Rows {
			fmt.Fprintf(bw, "%s\t%.2f\t%.2f\t%.2f\n", row.Label,
				row.FinalBalance.InexactFloat64(), row.CashFlowTotal.InexactFloat64(), row.AvgMonthlyCashFlow.InexactFloat64())
		}
	}
	return bw.Flush()
}

// WriteExperimentFile writes the TSV to path, creating parent directories.
// An empty path names the file after the report kind inside dir.
func WriteExperimentFile(report *domain.ExperimentReport, dir, path string) (string, error) {
	if path == "" {
		path = filepath.Join(dir, fmt.Sprintf("%s_experiment_%s.tsv", report.Kind, nowFunc().Format("20060102_150405")))
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := WriteExperimentTSV(f, report); err != nil {
		f.Close()
		return "", err
	}
	return path, f.Close()
}

// WriteExperimentTable renders every section as a console table with run counts and percentiles
func WriteExperimentTable(w io.Writer, report *domain.ExperimentReport) error {
	total, avg := report.CashFlowHeaders()
	fmt.Fprintf(w, "%s experiment %s\n", report.Kind, report.ID)
	for _, section := range report.Sections {
		fmt.Fprintf(w, "\n%s\n", section.Name)
		table := tablewriter.NewWriter(w)
		table.Header("Variable", "Final Balance", total, avg, "P10", "P50", "P90", "Runs", "Insolvent", "Ended Early")
		for _, row := range section.Rows {
			if err := table.Append(
				row.Label,
				FormatCurrency(row.FinalBalance),
				FormatCurrency(row.CashFlowTotal),
				FormatCurrency(row.AvgMonthlyCashFlow),
				FormatCurrency(row.P10),
				FormatCurrency(row.P50),
				FormatCurrency(row.P90),
				intToString(row.Runs),
				intToString(row.Insolvent),
				intToString(row.EndedEarly),
			); err != nil {
				return err
			}
		}
		if err := table.Render(); err != nil {
			return err
		}
	}
	return nil
}
