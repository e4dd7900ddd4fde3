package agent

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/talentinsight/interview-analyzer/internal/models"
)

type stubAnalyzer struct {
	mu      sync.Mutex
	calls   int
	failFor map[string]error
}

func (s *stubAnalyzer) Analyze(ctx context.Context, clip *models.MediaClip, position, candidateName string) (*models.AnalysisResult, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()

	if err, ok := s.failFor[candidateName]; ok {
		return nil, err
	}

	return &models.AnalysisResult{
		Summary:        "Kandidat menunjukkan performa yang baik.",
		Questions:      []models.QuestionAnalysis{},
		RedFlags:       []string{},
		MatchScore:     78,
		Recommendation: models.RecommendYes,
		RiskLevel:      models.RiskLow,
	}, nil
}

type memRoster struct {
	mu         sync.Mutex
	candidates []models.Candidate
	failWith   error
}

func (m *memRoster) AddCandidate(c models.Candidate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	m.candidates = append(m.candidates, c)
	return nil
}

func (m *memRoster) all() []models.Candidate {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Candidate, len(m.candidates))
	copy(out, m.candidates)
	return out
}

func stageRecording(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create uploads dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), []byte("fake media"), 0644); err != nil {
		t.Fatalf("Failed to stage recording: %v", err)
	}
}

func TestIngestFromUpload(t *testing.T) {
	uploadsDir := t.TempDir()
	stageRecording(t, uploadsDir, "Sarah Jenkins_Frontend_Developer.mp3")
	stageRecording(t, uploadsDir, "Michael Chen_Backend_Engineer.mp4")

	roster := &memRoster{}
	a := NewInterviewAgent(uploadsDir, roster)
	a.SetAnalyzer(&stubAnalyzer{})

	var lastProgress int
	a.SetProgressCallback(func(current, total int, message string) {
		lastProgress = current
	})

	if err := a.IngestFromUpload(); err != nil {
		t.Fatalf("IngestFromUpload failed: %v", err)
	}

	candidates := roster.all()
	if len(candidates) != 2 {
		t.Fatalf("Expected 2 candidates, got %d", len(candidates))
	}
	for _, c := range candidates {
		if c.ID == "" {
			t.Error("Expected candidate ID to be set")
		}
		if c.Status != models.StatusAnalyzed {
			t.Errorf("Expected status %s, got %s", models.StatusAnalyzed, c.Status)
		}
		if c.Analysis == nil {
			t.Error("Expected analysis to be set")
		}
		if c.Email != models.DeriveEmail(c.Name) {
			t.Errorf("Unexpected email %s for %s", c.Email, c.Name)
		}
		if c.MediaURL == "" {
			t.Error("Expected media URL to point at the staged recording")
		}
	}

	if lastProgress != 100 {
		t.Errorf("Expected final progress 100, got %d", lastProgress)
	}
}

func TestIngestFromUploadEmpty(t *testing.T) {
	a := NewInterviewAgent(t.TempDir(), &memRoster{})
	a.SetAnalyzer(&stubAnalyzer{})

	if err := a.IngestFromUpload(); err == nil {
		t.Fatal("Expected error for empty uploads directory")
	}
}

func TestIngestContinuesAfterFailure(t *testing.T) {
	uploadsDir := t.TempDir()
	stageRecording(t, uploadsDir, "Alice Wong_QA_Engineer.mp3")
	stageRecording(t, uploadsDir, "Bob Smith_QA_Engineer.mp3")

	roster := &memRoster{}
	a := NewInterviewAgent(uploadsDir, roster)
	a.SetAnalyzer(&stubAnalyzer{
		failFor: map[string]error{"Alice Wong": errors.New("model unavailable")},
	})

	if err := a.IngestFromUpload(); err != nil {
		t.Fatalf("Expected batch to continue past a failed analysis, got %v", err)
	}

	candidates := roster.all()
	if len(candidates) != 1 {
		t.Fatalf("Expected 1 candidate, got %d", len(candidates))
	}
	if candidates[0].Name != "Bob Smith" {
		t.Errorf("Expected Bob Smith to be stored, got %s", candidates[0].Name)
	}
}

func TestIngestAllFailuresReturnsError(t *testing.T) {
	uploadsDir := t.TempDir()
	stageRecording(t, uploadsDir, "Alice Wong_QA_Engineer.mp3")

	a := NewInterviewAgent(uploadsDir, &memRoster{})
	a.SetAnalyzer(&stubAnalyzer{
		failFor: map[string]error{"Alice Wong": errors.New("model unavailable")},
	})

	if err := a.IngestFromUpload(); err == nil {
		t.Fatal("Expected error when no interview could be analyzed")
	}
}

func TestIngestCancellation(t *testing.T) {
	uploadsDir := t.TempDir()
	stageRecording(t, uploadsDir, "Alice Wong_QA_Engineer.mp3")

	a := NewInterviewAgent(uploadsDir, &memRoster{})
	a.SetAnalyzer(&stubAnalyzer{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := a.IngestFromUploadWithContext(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
}

func TestIngestRosterFailureSkipsCandidate(t *testing.T) {
	uploadsDir := t.TempDir()
	stageRecording(t, uploadsDir, "Alice Wong_QA_Engineer.mp3")

	roster := &memRoster{failWith: errors.New("disk full")}
	a := NewInterviewAgent(uploadsDir, roster)
	a.SetAnalyzer(&stubAnalyzer{})

	if err := a.IngestFromUpload(); err == nil {
		t.Fatal("Expected error when no candidate could be stored")
	}
}
