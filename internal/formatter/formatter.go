// package formatter provides functions to export soundcloud records to various formats (CSV, Markdown, JSON, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/andrewwillette/willette/internal/models"
	"github.com/andrewwillette/willette/internal/shared"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Format names accepted by [Export].
const (
	FormatText     = "text"
	FormatCSV      = "csv"
	FormatMarkdown = "md"
	FormatJSON     = "json"
)

// Formats lists every supported format.
var Formats = []string{FormatText, FormatCSV, FormatMarkdown, FormatJSON}

// ExportToCSV converts records to CSV format with columns: URL, UiOrder
func ExportToCSV(urls []models.SoundcloudURL) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"URL", "UiOrder"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, u := range urls {
		if err := writer.Write([]string{u.URL, u.UIOrder.String()}); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown renders records as a Markdown table under title
func ExportToMarkdown(urls []models.SoundcloudURL, title string) ([]byte, error) {
	var buf bytes.Buffer

	if title != "" {
		buf.WriteString(fmt.Sprintf("# %s\n\n", title))
	}
	buf.WriteString(fmt.Sprintf("**Tracks**: %d\n\n", len(urls)))

	buf.WriteString("| # | URL | UiOrder |\n")
	buf.WriteString("|---|-----|---------|\n")
	for i, u := range urls {
		url := strings.ReplaceAll(u.URL, "|", `\|`)
		buf.WriteString(fmt.Sprintf("| %d | <%s> | %s |\n", i+1, url, u.UIOrder))
	}

	return buf.Bytes(), nil
}

// ExportToText renders records as a bordered table with the order right-aligned
func ExportToText(urls []models.SoundcloudURL) ([]byte, error) {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Order", "URL"})
	for _, u := range urls {
		tw.AppendRow(table.Row{u.UIOrder.String(), u.URL})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 2, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
	})

	return []byte(tw.Render() + "\n"), nil
}

// ExportToJSON renders records as an indented JSON array, using [] for no records
func ExportToJSON(urls []models.SoundcloudURL) ([]byte, error) {
	if urls == nil {
		urls = []models.SoundcloudURL{}
	}
	data, err := json.MarshalIndent(urls, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// Export renders records in the named format.
func Export(format string, urls []models.SoundcloudURL) ([]byte, error) {
	switch strings.ToLower(format) {
	case "", FormatText, "txt":
		return ExportToText(urls)
	case FormatCSV:
		return ExportToCSV(urls)
	case FormatMarkdown, "markdown":
		return ExportToMarkdown(urls, "Soundcloud URLs")
	case FormatJSON:
		return ExportToJSON(urls)
	default:
		return nil, fmt.Errorf("%w: unknown format %q (want one of %s)", shared.ErrInvalidFlag, format, strings.Join(Formats, ", "))
	}
}

// WriteExport renders records in the named format to path, creating parent directories as needed.
func WriteExport(format string, urls []models.SoundcloudURL, path string) error {
	data, err := Export(format, urls)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s file: %w", format, err)
	}
	return nil
}
