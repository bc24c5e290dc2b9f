package excel

import (
	"testing"

	"github.com/onegreenvn/title-studio-backend/internal/models"
	"github.com/xuri/excelize/v2"
)

func intPtr(n int) *int {
	return &n
}

func TestExportTitleSet(t *testing.T) {
	svc := NewExcelService(t.TempDir())

	titles := []models.TitleCandidate{
		{YoutubeTitle: "First Title", ThumbnailText: "WOW", CtrRationale: "strong hook", Rank: intPtr(1)},
		{YoutubeTitle: "Second Title", Rank: intPtr(2)},
	}

	result, err := svc.ExportTitleSet("req-123", titles)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f, err := excelize.OpenFile(result.Path)
	if err != nil {
		t.Fatalf("exported file is not a readable workbook: %v", err)
	}
	defer f.Close()

	header, err := f.GetCellValue("Titles", "B1")
	if err != nil {
		t.Fatalf("failed to read header: %v", err)
	}
	if header != "youtube_title" {
		t.Errorf("unexpected header %q", header)
	}

	title, _ := f.GetCellValue("Titles", "B2")
	if title != "First Title" {
		t.Errorf("unexpected first row title %q", title)
	}

	rank, _ := f.GetCellValue("Titles", "A3")
	if rank != "2" {
		t.Errorf("unexpected second row rank %q", rank)
	}
}

func TestExportTitleSet_EmptyRefused(t *testing.T) {
	svc := NewExcelService(t.TempDir())

	if _, err := svc.ExportTitleSet("req-123", nil); err == nil {
		t.Error("expected an error for an empty title set")
	}
}
