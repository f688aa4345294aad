package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/noah-isme/deputat-planner/internal/models"
	"github.com/noah-isme/deputat-planner/internal/service"
)

func main() {
	var (
		policyPath string
		schoolYear string
		asJSON     bool
		outPath    string
	)

	flag.StringVar(&policyPath, "policy", filepath.Join("scripts", "staffing_worksheet", "policy.example.yaml"), "Path to a YAML staffing policy")
	flag.StringVar(&schoolYear, "year", "2025-26", "School year printed in exports")
	flag.BoolVar(&asJSON, "json", false, "Print lines and computation as JSON")
	flag.StringVar(&outPath, "out", "", "Also write the worksheet to a .csv, .pdf or .xlsx file")
	flag.Parse()

	policy, err := loadPolicy(policyPath)
	if err != nil {
		log.Fatalf("failed to load policy: %v", err)
	}
	if err := validator.New().Struct(policy); err != nil {
		log.Fatalf("invalid policy: %v", err)
	}

	lines, computation := service.NewStaffingCalculator(nil).PolicyReport(policy)

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(map[string]interface{}{"computation": computation, "lines": lines}); err != nil {
			log.Fatalf("failed to encode: %v", err)
		}
	} else {
		printWorksheet(os.Stdout, lines, computation)
	}

	if outPath != "" {
		if err := writeExport(outPath, schoolYear, lines); err != nil {
			log.Fatalf("failed to write %s: %v", outPath, err)
		}
		fmt.Fprintf(os.Stderr, "wrote %s\n", outPath)
	}
}

// loadPolicy merges the YAML file onto the default worksheet.
func loadPolicy(path string) (models.StaffingPolicy, error) {
	policy := models.DefaultStaffingPolicy()
	raw, err := os.ReadFile(path)
	if err != nil {
		return policy, err
	}
	if err := yaml.Unmarshal(raw, &policy); err != nil {
		return policy, fmt.Errorf("parse %s: %w", path, err)
	}
	return policy, nil
}

func printWorksheet(w io.Writer, lines []models.StaffingReportLine, c models.PolicyComputation) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Pos\tKategorie\tKomponente\tStunden\t")
	for _, l := range lines {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%.2f\t\n", l.Position, l.Category, l.Component, l.RequiredHours)
	}
	tw.Flush()

	fmt.Fprintf(w, "\nQuotient %.4f  abgeschnitten %.2f  gerundet %.1f\n", c.Quotient, c.QuotientTruncated, c.RoundedBase)
	fmt.Fprintf(w, "Gesamtbedarf %.2f Stunden = %.2f Stellen\n", c.GrandTotalHours, c.RequiredPositions)
}

func writeExport(path, schoolYear string, lines []models.StaffingReportLine) error {
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if !service.SupportedFormat(format) {
		return fmt.Errorf("unsupported extension %q", format)
	}
	file, err := service.NewExportService(service.ExportConfig{}, nil, nil, nil, nil).
		Render(schoolYear, models.ReportModePolicy, format, lines)
	if err != nil {
		return err
	}
	return os.WriteFile(path, file.Data, 0o644)
}
