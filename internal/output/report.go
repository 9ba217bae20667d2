package output

import (
	"fmt"
	"strings"

	"github.com/CapitalsFunds/site-demo/internal/domain"
)

// ResolveFormatter returns the formatter for a name, or an error listing
// the available formats and aliases.
func ResolveFormatter(format string) (Formatter, error) {
	if f := GetFormatterByName(format); f != nil {
		return f, nil
	}
	return nil, fmt.Errorf("%w: %q. Try one of: %s (aliases: %s)", ErrUnsupportedFormat, format, strings.Join(AvailableFormatterNames(), ", "), strings.Join(AvailableFormatAliases(), ", "))
}

// Render formats a comparison without writing it anywhere.
func Render(results *domain.Comparison, format string) ([]byte, error) {
	f, err := ResolveFormatter(format)
	if err != nil {
		return nil, err
	}
	return f.Format(results)
}

// GenerateReport writes the comparison to a timestamped file and returns its name.
// "all" writes one file per registered formatter.
func GenerateReport(results *domain.Comparison, format string) ([]string, error) {
	if strings.EqualFold(strings.TrimSpace(format), "all") {
		var files []string
		for _, name := range AvailableFormatterNames() {
			f := GetFormatterByName(name)
			file, err := WriteFormatted(f, results, FileExtension(name))
			if err != nil {
				return files, err
			}
			files = append(files, file)
		}
		return files, nil
	}

	f, err := ResolveFormatter(format)
	if err != nil {
		return nil, err
	}
	file, err := WriteFormatted(f, results, FileExtension(f.Name()))
	if err != nil {
		return nil, err
	}
	return []string{file}, nil
}

// WriteReport writes the comparison in the given format to path.
func WriteReport(results *domain.Comparison, format, path string) error {
	f, err := ResolveFormatter(format)
	if err != nil {
		return err
	}
	return WriteFormattedTo(f, results, path)
}
