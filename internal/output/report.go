package output

import (
	"fmt"
	"strings"

	"github.com/rpgo/glidepath/internal/domain"
)

// GenerateReport writes the report in the given format to dir and returns the files written.
// "all" writes the console summary, the per-month history CSV and the JSON document.
func GenerateReport(report *domain.SimulationReport, format, dir string) ([]string, error) {
	if strings.EqualFold(strings.TrimSpace(format), "all") {
		var files []string
		for _, f := range []Formatter{ConsoleFormatter{}, CSVDetailedExporter{}, JSONFormatter{}} {
			name, err := WriteFormatted(f, report, dir, Extension(f.Name()))
			if err != nil {
				return files, err
			}
			files = append(files, name)
		}
		return files, nil
	}

	f := GetFormatterByName(format)
	if f == nil {
		// enrich error with available formatters and aliases
		return nil, fmt.Errorf("%w: %q. Try one of: %s (aliases: %s)", ErrUnsupportedFormat, format, strings.Join(AvailableFormatterNames(), ", "), strings.Join(AvailableFormatAliases(), ", "))
	}
	name, err := WriteFormatted(f, report, dir, Extension(f.Name()))
	if err != nil {
		return nil, err
	}
	return []string{name}, nil
}
