package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/huangsam/marketscope/internal/contract"
	"github.com/huangsam/marketscope/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteQueryPlan outputs the search plan of a subject.
func WriteQueryPlan(plan schema.QueryPlan, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, plan)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{"position", "query"}, func(cw *csv.Writer) error {
				for i, q := range plan.Queries {
					if err := cw.Write([]string{strconv.Itoa(i), q}); err != nil {
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
			return writeQueryTable(w, plan, cfg)
		}, "Wrote table")
	}
}

func writeQueryTable(w io.Writer, plan schema.QueryPlan, cfg *contract.Config) error {
	fmt.Fprintln(w, heading("🧭", fmt.Sprintf("Query plan: %s [%s]", plan.Subject.TargetName, plan.Subject.TargetType), cfg.UseEmojis))

	table := tablewriter.NewWriter(w)
	table.Header([]string{"#", "Query"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})

	data := make([][]string, 0, len(plan.Queries))
	for i, q := range plan.Queries {
		data = append(data, []string{strconv.Itoa(i + 1), q})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	fmt.Fprintf(w, "Tender keywords: %s\n", orNone(plan.TenderKeywords))
	fmt.Fprintf(w, "Suggested HS codes: %s\n", orNone(plan.SuggestedHSCodes))
	return nil
}

func orNone(values []string) string {
	if len(values) == 0 {
		return "(none)"
	}
	return strings.Join(values, ", ")
}
