// Package parquet provides data structures and functions for exporting marketscope
// runs and evidence to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/marketscope/schema"
	"github.com/parquet-go/parquet-go"
)

// Run represents a single stored analysis run.
// This struct maps to the marketscope_runs database table.
type Run struct {
	RunID             int64      `parquet:"run_id,snappy"`
	RunUUID           string     `parquet:"run_uuid,snappy"`
	TargetName        string     `parquet:"target_name,snappy"`
	TargetType        string     `parquet:"target_type,snappy"`
	StartTime         time.Time  `parquet:"start_time,snappy"`
	EndTime           *time.Time `parquet:"end_time,optional,snappy"`
	RunDurationMs     *int32     `parquet:"run_duration_ms,optional,snappy"`
	EvidenceCount     int32      `parquet:"evidence_count,snappy"`
	OverallScore      *int32     `parquet:"overall_score,optional,snappy"`
	Confidence        *int32     `parquet:"confidence,optional,snappy"`
	DimensionalScores *string    `parquet:"dimensional_scores,optional,snappy"`
	ConfigParams      *string    `parquet:"config_params,optional,snappy"`
}

// Evidence represents one evidence item of a run.
// RunID is the database id for exported history and zero for a live analysis,
// which is identified by RunUUID instead.
type Evidence struct {
	RunID          int64   `parquet:"run_id,snappy"`
	RunUUID        string  `parquet:"run_uuid,optional,snappy"`
	Position       int32   `parquet:"position,snappy"`
	Title          string  `parquet:"title,snappy"`
	URL            string  `parquet:"url,snappy"`
	Summary        string  `parquet:"summary,snappy"`
	Age            string  `parquet:"age,snappy"`
	Source         string  `parquet:"source,snappy"`
	SignalType     string  `parquet:"signal_type,snappy"`
	Domain         string  `parquet:"domain,snappy"`
	Quality        string  `parquet:"quality,snappy"`
	Severity       *string `parquet:"severity,optional,snappy"`
	KeywordHits    *int32  `parquet:"keyword_hits,optional,snappy"`
	RelevanceScore *int32  `parquet:"relevance_score,optional,snappy"`
}

// ConvertRunRecords converts stored run records to Parquet rows.
func ConvertRunRecords(records []schema.RunRecord) []Run {
	out := make([]Run, 0, len(records))
	for _, r := range records {
		out = append(out, Run{
			RunID:             r.RunID,
			RunUUID:           r.RunUUID,
			TargetName:        r.TargetName,
			TargetType:        r.TargetType,
			StartTime:         r.StartTime,
			EndTime:           r.EndTime,
			RunDurationMs:     toInt32Ptr(r.RunDurationMs),
			EvidenceCount:     int32(r.EvidenceCount),
			OverallScore:      toInt32Ptr(r.OverallScore),
			Confidence:        toInt32Ptr(r.Confidence),
			DimensionalScores: r.DimensionalScores,
			ConfigParams:      r.ConfigParams,
		})
	}
	return out
}

// ConvertEvidenceRecords converts stored evidence records to Parquet rows.
func ConvertEvidenceRecords(records []schema.EvidenceRecord) []Evidence {
	out := make([]Evidence, 0, len(records))
	for _, r := range records {
		out = append(out, Evidence{
			RunID:          r.RunID,
			Position:       int32(r.Position),
			Title:          r.Title,
			URL:            r.URL,
			Summary:        r.Summary,
			Age:            r.Age,
			Source:         r.Source,
			SignalType:     r.SignalType,
			Domain:         r.Domain,
			Quality:        r.Quality,
			Severity:       r.Severity,
			KeywordHits:    toInt32Ptr(r.KeywordHits),
			RelevanceScore: toInt32Ptr(r.RelevanceScore),
		})
	}
	return out
}

// ConvertEvidenceItems converts the evidence of a live analysis to Parquet rows.
func ConvertEvidenceItems(runUUID string, items []schema.EvidenceItem) []Evidence {
	out := make([]Evidence, 0, len(items))
	for i, item := range items {
		row := Evidence{
			RunUUID:    runUUID,
			Position:   int32(i),
			Title:      item.Title,
			URL:        item.URL,
			Summary:    item.Summary,
			Age:        item.Age,
			Source:     item.Source,
			SignalType: item.SignalType,
			Domain:     item.Domain,
			Quality:    string(item.Quality),
		}
		if c := item.Classification; c != nil {
			severity := string(c.Severity)
			row.Severity = &severity
			row.KeywordHits = toInt32Ptr(&c.KeywordHits)
			row.RelevanceScore = toInt32Ptr(&c.RelevanceScore)
		}
		out = append(out, row)
	}
	return out
}

// WriteRunsParquet writes runs to a Parquet file.
func WriteRunsParquet(data []Run, outputPath string) error {
	return writeFile(outputPath, data)
}

// WriteEvidenceParquet writes evidence rows to a Parquet file.
func WriteEvidenceParquet(data []Evidence, outputPath string) error {
	return writeFile(outputPath, data)
}

// WriteEvidence writes evidence rows as a Parquet stream to w.
func WriteEvidence(w io.Writer, data []Evidence) error {
	return write(w, data)
}

func writeFile[T any](outputPath string, data []T) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := write(file, data); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// write encodes data with a schema inferred from the struct tags of T.
func write[T any](w io.Writer, data []T) error {
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

func toInt32Ptr(v *int) *int32 {
	if v == nil {
		return nil
	}
	out := int32(*v)
	return &out
}
