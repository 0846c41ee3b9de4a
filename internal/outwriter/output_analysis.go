package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/marketscope/internal/contract"
	"github.com/huangsam/marketscope/internal/parquet"
	"github.com/huangsam/marketscope/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// evidenceCSVHeader lists the columns of an evidence export.
var evidenceCSVHeader = []string{
	"run_id", "position", "signal_type", "title", "url", "summary", "age",
	"source", "domain", "quality", "severity", "keyword_hits", "relevance_score",
}

// WriteAnalysisResult outputs an analysis result, dispatching based on the output format configured.
func WriteAnalysisResult(result *schema.AnalysisResult, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeEvidenceCSV(w, result)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		rows := parquet.ConvertEvidenceItems(result.RunID, result.Evidence)
		if err := parquet.WriteEvidenceParquet(rows, cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
		fmt.Fprintf(os.Stderr, "💾 Wrote Parquet to %s\n", cfg.OutputFile)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeAnalysisText(w, result, cfg, duration)
		}, "Wrote table")
	}
	return nil
}

// writeEvidenceCSV writes one row per evidence item.
func writeEvidenceCSV(w io.Writer, result *schema.AnalysisResult) error {
	return writeCSVWithHeader(w, evidenceCSVHeader, func(cw *csv.Writer) error {
		for i, item := range result.Evidence {
			severity, hits, relevance := "", "", ""
			if c := item.Classification; c != nil {
				severity = string(c.Severity)
				hits = strconv.Itoa(c.KeywordHits)
				relevance = strconv.Itoa(c.RelevanceScore)
			}
			record := []string{
				result.RunID,
				strconv.Itoa(i),
				item.SignalType,
				item.Title,
				item.URL,
				item.Summary,
				item.Age,
				item.Source,
				item.Domain,
				string(item.Quality),
				severity,
				hits,
				relevance,
			}
			if err := cw.Write(record); err != nil {
				return fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
		return nil
	})
}

// writeAnalysisText renders the score card, the evidence table and the run notes.
func writeAnalysisText(w io.Writer, result *schema.AnalysisResult, cfg *contract.Config, duration time.Duration) error {
	target := result.Subject.TargetName
	if result.Resolved != nil {
		target = fmt.Sprintf("%s (%s)", result.Resolved.Name, result.Resolved.Code)
	}
	fmt.Fprintln(w, heading("📈", fmt.Sprintf("Market: %s [%s]", target, result.Subject.TargetType), cfg.UseEmojis))
	fmt.Fprintf(w, "Overall: %d/100 %s | Confidence: %d/100\n\n",
		result.Scores.OverallScore,
		scoreLabel(result.Scores.OverallScore, cfg.UseColors),
		result.Scores.Confidence)

	if err := writeScoreTable(w, result, cfg); err != nil {
		return err
	}
	fmt.Fprintln(w)
	if err := writeEvidenceTable(w, result.Evidence, cfg); err != nil {
		return err
	}

	if result.Narrative != "" {
		fmt.Fprintf(w, "\n%s\n%s\n", heading("📝", "Summary", cfg.UseEmojis), result.Narrative)
	}
	for _, warning := range result.Warnings {
		fmt.Fprintf(w, "%s\n", heading("⚠️", "Warning: "+warning, cfg.UseEmojis))
	}
	if n := len(result.FetchFailures); n > 0 {
		sources := make([]string, 0, n)
		for _, f := range result.FetchFailures {
			sources = append(sources, f.Source+":"+f.Key)
		}
		fmt.Fprintf(w, "Degraded fetches (%d): %s\n", n, strings.Join(sources, ", "))
	}

	fmt.Fprintf(w, "Analysis completed in %v with %d workers. Evidence: %d items. Cache backend: %s\n",
		duration.Round(time.Millisecond), cfg.Workers, len(result.Evidence), cfg.CacheBackend)
	return nil
}

// writeScoreTable renders one row per dimension with its weight.
func writeScoreTable(w io.Writer, result *schema.AnalysisResult, cfg *contract.Config) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Dimension", "Score", "Weight", "Label"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, dim := range schema.ScoringDimensions {
		score := result.Scores.DimensionalScores.Value(dim)
		data = append(data, []string{
			string(dim),
			strconv.Itoa(score),
			fmt.Sprintf("%.2f", result.Scores.Weights[dim]),
			scoreLabel(score, cfg.UseColors),
		})
	}
	signal := result.Scores.DimensionalScores.SignalStrength
	data = append(data, []string{string(schema.SignalStrength), strconv.Itoa(signal), "-", scoreLabel(signal, cfg.UseColors)})

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// writeEvidenceTable renders at most cfg.EvidenceLimit evidence rows.
func writeEvidenceTable(w io.Writer, evidence []schema.EvidenceItem, cfg *contract.Config) error {
	if len(evidence) == 0 {
		fmt.Fprintln(w, "No evidence collected.")
		return nil
	}

	table := tablewriter.NewWriter(w)
	headers := []string{"Rank", "Type", "Title", "Quality"}
	if cfg.Detail {
		headers = append(headers, "Source", "Domain", "Severity")
	}
	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	limit := len(evidence)
	if cfg.EvidenceLimit > 0 {
		limit = min(limit, cfg.EvidenceLimit)
	}
	titleWidth := GetMaxTableTitleWidth(cfg)

	var data [][]string
	for i, item := range evidence[:limit] {
		row := []string{
			strconv.Itoa(i + 1),
			item.SignalType,
			contract.Truncate(item.Title, titleWidth),
			string(item.Quality),
		}
		if cfg.Detail {
			severity := "-"
			if item.Classification != nil {
				severity = string(item.Severity)
			}
			row = append(row, item.Source, item.Domain, severity)
		}
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	if limit < len(evidence) {
		fmt.Fprintf(w, "Showing %d of %d evidence items.\n", limit, len(evidence))
	}
	return nil
}
