package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/talentinsight/interview-analyzer/internal/models"
)

func sampleCandidates() []models.Candidate {
	return []models.Candidate{
		{
			ID:       "c-1",
			Name:     "Sarah Jenkins",
			Position: "Frontend Developer",
			Email:    "sarah.jenkins@example.com",
			Date:     "2026-08-28T10:00:00Z",
			Status:   models.StatusAnalyzed,
			MediaURL: "uploads/sarah.mp3",
			Analysis: &models.AnalysisResult{
				Summary: "Kandidat sangat antusias dan memiliki dasar teknis yang kuat.",
				Questions: []models.QuestionAnalysis{
					{
						Question:      "Ceritakan tentang proyek tersulit Anda.",
						AnswerSummary: "Menjelaskan migrasi sistem legacy dengan baik.",
						Sentiment:     models.SentimentPositive,
						KeySkills:     []string{"React", "Problem Solving"},
					},
				},
				RedFlags:       []string{"Sedikit ragu saat membahas ekspektasi gaji."},
				MatchScore:     85,
				Recommendation: models.RecommendYes,
				RiskLevel:      models.RiskLow,
			},
		},
		{
			ID:       "c-2",
			Name:     "Michael Chen",
			Position: "Backend Engineer",
			Email:    "michael.chen@example.com",
			Date:     "2026-08-25T10:00:00Z",
			Status:   models.StatusPending,
		},
	}
}

func TestExportToExcel_EnsuresXlsxExtension(t *testing.T) {
	tmpDir := t.TempDir()

	outputPath := filepath.Join(tmpDir, "roster_report")
	err := ExportToExcel(sampleCandidates(), models.DashboardStats{Total: 2, AverageMatchScore: 85}, outputPath)
	if err != nil {
		t.Fatalf("ExportToExcel() failed: %v", err)
	}

	expectedPath := outputPath + ".xlsx"
	if _, err := os.Stat(expectedPath); os.IsNotExist(err) {
		t.Errorf("Expected file at %s but it doesn't exist", expectedPath)
	}
}

func TestExportToExcel_HandlesExistingXlsxExtension(t *testing.T) {
	tmpDir := t.TempDir()

	outputPath := filepath.Join(tmpDir, "roster_report.xlsx")
	err := ExportToExcel(sampleCandidates(), models.DashboardStats{Total: 2}, outputPath)
	if err != nil {
		t.Fatalf("ExportToExcel() failed: %v", err)
	}

	if _, err := os.Stat(outputPath); os.IsNotExist(err) {
		t.Errorf("Expected file at %s but it doesn't exist", outputPath)
	}

	if strings.HasSuffix(outputPath, ".xlsx.xlsx") {
		t.Error("Should not have double .xlsx extension")
	}
}

func TestExportToExcel_EmptyRoster(t *testing.T) {
	tmpDir := t.TempDir()

	outputPath := filepath.Join(tmpDir, "empty_report.xlsx")
	err := ExportToExcel([]models.Candidate{}, models.DashboardStats{}, outputPath)
	if err != nil {
		t.Fatalf("ExportToExcel() should handle an empty roster: %v", err)
	}

	if _, err := os.Stat(outputPath); os.IsNotExist(err) {
		t.Errorf("Expected file at %s but it doesn't exist", outputPath)
	}
}

func TestExportToExcel_PendingCandidateWithoutAnalysis(t *testing.T) {
	tmpDir := t.TempDir()

	candidates := []models.Candidate{
		{
			ID:       "c-3",
			Name:     "Jane Doe",
			Position: "QA Engineer",
			Status:   models.StatusPending,
		},
	}

	outputPath := filepath.Join(tmpDir, "pending.xlsx")
	if err := ExportToExcel(candidates, models.DashboardStats{Total: 1, PendingCount: 1}, outputPath); err != nil {
		t.Fatalf("ExportToExcel() should handle unanalyzed candidates: %v", err)
	}

	if _, err := os.Stat(outputPath); os.IsNotExist(err) {
		t.Errorf("Expected file at %s but it doesn't exist", outputPath)
	}
}
