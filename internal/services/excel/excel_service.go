package excel

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/onegreenvn/title-studio-backend/internal/models"
	"github.com/xuri/excelize/v2"
)

// Service renders the current TitleSet to an Excel workbook for download.
// It reads the live session only; nothing is persisted across sessions.
type Service struct {
	exportsDir string
}

// NewExcelService creates a new Excel service instance
func NewExcelService(exportsDir string) *Service {
	if _, err := os.Stat(exportsDir); os.IsNotExist(err) {
		os.MkdirAll(exportsDir, 0755)
	}

	return &Service{
		exportsDir: exportsDir,
	}
}

// ExportResult contains the result of an export operation
type ExportResult struct {
	Filename string
	Path     string
}

var titleColumns = []string{"rank", "youtube_title", "thumbnail_text", "ctr_rationale"}

// ExportTitleSet writes the candidates to an xlsx file and returns its path.
func (s *Service) ExportTitleSet(requestID string, titles []models.TitleCandidate) (*ExportResult, error) {
	if len(titles) == 0 {
		return nil, fmt.Errorf("no title candidates to export")
	}

	timestamp := time.Now().Unix()
	filename := fmt.Sprintf("titles_%s_%d.xlsx", requestID, timestamp)
	filePath := filepath.Join(s.exportsDir, filename)

	f := excelize.NewFile()

	sheetName := "Titles"
	defaultSheetName := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheetName, sheetName); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	f.SetActiveSheet(0)

	for i, col := range titleColumns {
		cell := fmt.Sprintf("%s1", columnToLetter(i+1))
		f.SetCellValue(sheetName, cell, col)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"FFFF00"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err == nil {
		f.SetCellStyle(sheetName, "A1", columnToLetter(len(titleColumns))+"1", headerStyle)
	}

	f.SetColWidth(sheetName, "A", "A", 8)
	f.SetColWidth(sheetName, "B", "B", 60)
	f.SetColWidth(sheetName, "C", "C", 30)
	f.SetColWidth(sheetName, "D", "D", 60)

	for j, title := range titles {
		rowNum := j + 2 // Start from row 2 (after headers)

		if title.Rank != nil {
			f.SetCellValue(sheetName, fmt.Sprintf("A%d", rowNum), *title.Rank)
		}
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", rowNum), title.YoutubeTitle)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", rowNum), title.ThumbnailText)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", rowNum), title.CtrRationale)
	}

	if err := f.SaveAs(filePath); err != nil {
		return nil, fmt.Errorf("failed to save Excel file: %w", err)
	}

	return &ExportResult{
		Filename: filename,
		Path:     filePath,
	}, nil
}

// Helper function to convert column number to Excel column letter
func columnToLetter(col int) string {
	var result string
	for col > 0 {
		col--
		result = string(rune('A'+col%26)) + result
		col /= 26
	}
	return result
}
