package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/huangsam/marketscope/internal/contract"
	"github.com/huangsam/marketscope/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WeightRow is one dimension of the weights report.
type WeightRow struct {
	Dimension  schema.Dimension `json:"dimension"`
	Default    float64          `json:"default"`
	Active     float64          `json:"active"`
	Normalized float64          `json:"normalized"`
	Custom     bool             `json:"custom"`
}

// buildWeightRows lists every weighted dimension in reporting order.
func buildWeightRows(cfg *contract.Config) []WeightRow {
	defaults := schema.GetDefaultWeights()
	normalized := cfg.Scoring.NormalizedWeights()

	rows := make([]WeightRow, 0, len(schema.ScoringDimensions))
	for _, dim := range schema.ScoringDimensions {
		_, custom := cfg.CustomWeights[dim]
		rows = append(rows, WeightRow{
			Dimension:  dim,
			Default:    defaults[dim],
			Active:     cfg.Scoring.Weight(dim),
			Normalized: normalized[dim],
			Custom:     custom,
		})
	}
	return rows
}

// WriteWeightsTable outputs the default, active and normalized weights.
func WriteWeightsTable(cfg *contract.Config) error {
	rows := buildWeightRows(cfg)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, rows)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{"dimension", "default", "active", "normalized", "custom"}, func(cw *csv.Writer) error {
				for _, r := range rows {
					record := []string{
						string(r.Dimension),
						fmt.Sprintf("%.4f", r.Default),
						fmt.Sprintf("%.4f", r.Active),
						fmt.Sprintf("%.4f", r.Normalized),
						fmt.Sprintf("%t", r.Custom),
					}
					if err := cw.Write(record); err != nil {
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
			return writeWeightsText(w, rows, cfg)
		}, "Wrote table")
	}
}

func writeWeightsText(w io.Writer, rows []WeightRow, cfg *contract.Config) error {
	fmt.Fprintln(w, heading("⚖️", "Scoring weights", cfg.UseEmojis))

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Dimension", "Default", "Active", "Normalized"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	data := make([][]string, 0, len(rows))
	for _, r := range rows {
		active := fmt.Sprintf("%.2f", r.Active)
		if r.Custom {
			active += "*"
		}
		data = append(data, []string{string(r.Dimension), fmt.Sprintf("%.2f", r.Default), active, fmt.Sprintf("%.3f", r.Normalized)})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	fmt.Fprintf(w, "Sum of active weights: %.2f (scores are divided by it)\n", cfg.Scoring.Sum())
	if len(cfg.CustomWeights) > 0 {
		fmt.Fprintln(w, "* set in config file")
	}
	fmt.Fprintln(w, "signal_strength is reported but never weighted.")
	return nil
}
