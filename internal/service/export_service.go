package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/deputat-planner/internal/models"
	"github.com/noah-isme/deputat-planner/pkg/export"
)

// Export formats accepted by the staffing export endpoint.
const (
	FormatCSV  = "csv"
	FormatPDF  = "pdf"
	FormatXLSX = "xlsx"
)

var exportContentTypes = map[string]string{
	FormatCSV:  "text/csv; charset=utf-8",
	FormatPDF:  "application/pdf",
	FormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	Title string
}

// ExportFile is a rendered report ready for download.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

type xlsxRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

// ExportService renders staffing report lines into downloadable documents.
type ExportService struct {
	csv    csvRenderer
	pdf    pdfRenderer
	xlsx   xlsxRenderer
	logger *zap.Logger
	cfg    ExportConfig
	now    func() time.Time
}

// NewExportService constructs an ExportService. Nil renderers select the defaults.
func NewExportService(cfg ExportConfig, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer, xlsx xlsxRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Title == "" {
		cfg.Title = "Stellenbedarf"
	}
	if csv == nil {
		csv = export.NewCSVExporter(0)
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	if xlsx == nil {
		xlsx = export.NewXLSXExporter("")
	}
	return &ExportService{csv: csv, pdf: pdf, xlsx: xlsx, logger: logger, cfg: cfg, now: time.Now}
}

// SupportedFormat reports whether format can be rendered.
func SupportedFormat(format string) bool {
	_, ok := exportContentTypes[format]
	return ok
}

// Render converts lines to the requested format.
func (s *ExportService) Render(schoolYear string, mode models.ReportMode, format string, lines []models.StaffingReportLine) (*ExportFile, error) {
	contentType, ok := exportContentTypes[format]
	if !ok {
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
	data := buildStaffingDataset(lines)
	title := fmt.Sprintf("%s %s (%s)", s.cfg.Title, schoolYear, modeLabel(mode))

	var (
		out []byte
		err error
	)
	switch format {
	case FormatCSV:
		out, err = s.csv.Render(data)
	case FormatPDF:
		out, err = s.pdf.Render(data, title)
	case FormatXLSX:
		out, err = s.xlsx.Render(data)
	}
	if err != nil {
		return nil, fmt.Errorf("render %s export: %w", format, err)
	}
	s.logger.Debug("staffing report rendered",
		zap.String("school_year", schoolYear),
		zap.String("mode", string(mode)),
		zap.String("format", format),
		zap.Int("bytes", len(out)),
	)
	return &ExportFile{
		Filename:    s.buildFilename(schoolYear, mode, format),
		ContentType: contentType,
		Data:        out,
	}, nil
}

func (s *ExportService) buildFilename(schoolYear string, mode models.ReportMode, format string) string {
	timestamp := s.now().UTC().Format("20060102_150405")
	return fmt.Sprintf("stellenbedarf_%s_%s_%s.%s", sanitizeFilename(schoolYear), mode, timestamp, format)
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "__", "_")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}

func modeLabel(mode models.ReportMode) string {
	if mode == models.ReportModePolicy {
		return "Erlass"
	}
	return "Stundentafel"
}

var staffingHeaders = []string{"Pos", "Kategorie", "Komponente", "Typ", "Bedarf", "Verfügbar", "Differenz", "Formel"}

func buildStaffingDataset(lines []models.StaffingReportLine) export.Dataset {
	data := export.Dataset{Headers: staffingHeaders}
	for _, line := range lines {
		data.Rows = append(data.Rows, map[string]string{
			"Pos":        strconv.Itoa(line.Position),
			"Kategorie":  line.Category,
			"Komponente": line.Component,
			"Typ":        string(line.LineType),
			"Bedarf":     formatHours(line.RequiredHours),
			"Verfügbar":  formatHours(line.AvailableHours),
			"Differenz":  formatHours(line.Deficit),
			"Formel":     line.Formula.Description,
		})
		data.Emphasis = append(data.Emphasis, line.LineType == models.LineTypeSummary || strings.HasPrefix(line.Component, "Summe"))
	}
	return data
}

func formatHours(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
