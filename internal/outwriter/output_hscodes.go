package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/huangsam/marketscope/internal/contract"
	"github.com/huangsam/marketscope/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteHSCodeSuggestions outputs the HS categories matched by text.
func WriteHSCodeSuggestions(text string, matches []schema.HSCategory, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, map[string]any{"text": text, "matches": matches})
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{"category", "codes"}, func(cw *csv.Writer) error {
				for _, m := range matches {
					if err := cw.Write([]string{m.Key, strings.Join(m.Codes, "|")}); err != nil {
						return fmt.Errorf("failed to write CSV record: %w", err)
					}
				}
				return nil
			})
		}, "Wrote CSV")
	case schema.ParquetOut:
		return fmt.Errorf("parquet output is only available for analysis results")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			if len(matches) == 0 {
				_, err := fmt.Fprintf(w, "No HS categories matched %q.\n", text)
				return err
			}
			table := tablewriter.NewWriter(w)
			table.Header([]string{"Category", "HS Codes"})
			table.Configure(func(cfg *tablewriter.Config) {
				cfg.Row.Alignment.Global = tw.AlignLeft
			})
			data := make([][]string, 0, len(matches))
			for _, m := range matches {
				data = append(data, []string{m.Key, strings.Join(m.Codes, ", ")})
			}
			if err := table.Bulk(data); err != nil {
				return err
			}
			return table.Render()
		}, "Wrote table")
	}
}
