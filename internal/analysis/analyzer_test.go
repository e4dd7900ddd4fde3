package analysis

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/talentinsight/interview-analyzer/internal/models"
)

const validResponse = `{
	"summary": "Kandidat menunjukkan pengetahuan teknis yang kuat.",
	"questions": [
		{
			"question": "Ceritakan tentang bug sulit yang pernah Anda selesaikan.",
			"answerSummary": "Menjelaskan race condition dalam alur pembayaran.",
			"sentiment": "positive",
			"keySkills": ["Debugging", "Ketekunan"]
		}
	],
	"personality": {
		"dominant": 30,
		"analytical": 80,
		"supportive": 60,
		"expressive": 40,
		"leadershipPotential": 7,
		"problemSolving": 9,
		"emotionalControl": 8
	},
	"redFlags": [],
	"matchScore": 85,
	"recommendation": "YES",
	"riskLevel": "Low"
}`

// fakeGenerator returns a canned response or error
type fakeGenerator struct {
	response string
	err      error

	lastMIMEType string
	lastPrompt   string
}

func (f *fakeGenerator) GenerateFromMedia(_ context.Context, mimeType string, _ []byte, prompt string) (string, error) {
	f.lastMIMEType = mimeType
	f.lastPrompt = prompt
	return f.response, f.err
}

func testClip() *models.MediaClip {
	return &models.MediaClip{
		Data:     []byte("fake audio bytes"),
		MIMEType: "audio/mpeg",
		FileName: "interview.mp3",
	}
}

func TestAnalyze_Success(t *testing.T) {
	gen := &fakeGenerator{response: validResponse}
	analyzer := NewAnalyzer(gen)

	result, err := analyzer.Analyze(context.Background(), testClip(), "Sales Manager", "Budi Santoso")
	if err != nil {
		t.Fatalf("Analyze() failed: %v", err)
	}

	if result.MatchScore != 85 {
		t.Errorf("Expected match score 85, got %v", result.MatchScore)
	}
	if result.Recommendation != models.RecommendYes {
		t.Errorf("Expected recommendation YES, got %s", result.Recommendation)
	}
	if result.RiskLevel != models.RiskLow {
		t.Errorf("Expected risk level Low, got %s", result.RiskLevel)
	}
	if len(result.Questions) != 1 {
		t.Fatalf("Expected 1 question, got %d", len(result.Questions))
	}
	if result.Questions[0].Sentiment != models.SentimentPositive {
		t.Errorf("Expected positive sentiment, got %s", result.Questions[0].Sentiment)
	}
	if result.RedFlags == nil || len(result.RedFlags) != 0 {
		t.Errorf("Expected empty red flags list, got %v", result.RedFlags)
	}
}

func TestAnalyze_PromptNamesCandidateAndPosition(t *testing.T) {
	gen := &fakeGenerator{response: validResponse}
	analyzer := NewAnalyzer(gen)

	if _, err := analyzer.Analyze(context.Background(), testClip(), "Sales Manager", "Budi Santoso"); err != nil {
		t.Fatalf("Analyze() failed: %v", err)
	}

	if !strings.Contains(gen.lastPrompt, "Budi Santoso") {
		t.Errorf("Expected prompt to contain candidate name, got: %s", gen.lastPrompt)
	}
	if !strings.Contains(gen.lastPrompt, "Sales Manager") {
		t.Errorf("Expected prompt to contain position, got: %s", gen.lastPrompt)
	}
	if gen.lastMIMEType != "audio/mpeg" {
		t.Errorf("Expected MIME type audio/mpeg, got %s", gen.lastMIMEType)
	}
}

func TestAnalyze_EmptyResponse(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{name: "Empty string", response: ""},
		{name: "Whitespace only", response: "  \n\t "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analyzer := NewAnalyzer(&fakeGenerator{response: tt.response})
			_, err := analyzer.Analyze(context.Background(), testClip(), "Sales Manager", "Budi")
			if !errors.Is(err, ErrEmptyResponse) {
				t.Errorf("Expected ErrEmptyResponse, got: %v", err)
			}
		})
	}
}

func TestAnalyze_MalformedResponse(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{
			name:     "Not JSON at all",
			response: "maaf, saya tidak dapat menganalisis rekaman ini",
		},
		{
			name:     "Truncated JSON",
			response: `{"summary": "ok", "matchScore":`,
		},
		{
			name:     "Wrong recommendation enum",
			response: `{"summary":"s","matchScore":50,"recommendation":"PERHAPS","riskLevel":"Low"}`,
		},
		{
			name:     "Score out of range",
			response: `{"summary":"s","matchScore":150,"recommendation":"YES","riskLevel":"Low"}`,
		},
		{
			name:     "Wrong risk level enum",
			response: `{"summary":"s","matchScore":50,"recommendation":"YES","riskLevel":"Critical"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analyzer := NewAnalyzer(&fakeGenerator{response: tt.response})
			_, err := analyzer.Analyze(context.Background(), testClip(), "Sales Manager", "Budi")
			if !errors.Is(err, ErrMalformedResponse) {
				t.Errorf("Expected ErrMalformedResponse, got: %v", err)
			}
		})
	}
}

func TestAnalyze_StripsSurroundingText(t *testing.T) {
	wrapped := "Berikut hasil analisis:\n" + validResponse + "\nSemoga membantu."
	analyzer := NewAnalyzer(&fakeGenerator{response: wrapped})

	result, err := analyzer.Analyze(context.Background(), testClip(), "Sales Manager", "Budi")
	if err != nil {
		t.Fatalf("Analyze() failed on wrapped JSON: %v", err)
	}
	if result.MatchScore != 85 {
		t.Errorf("Expected match score 85, got %v", result.MatchScore)
	}
}

func TestAnalyze_TransportErrorPropagates(t *testing.T) {
	transportErr := errors.New("rpc error: code = Unavailable")
	analyzer := NewAnalyzer(&fakeGenerator{err: transportErr})

	_, err := analyzer.Analyze(context.Background(), testClip(), "Sales Manager", "Budi")
	if !errors.Is(err, transportErr) {
		t.Errorf("Expected transport error to propagate, got: %v", err)
	}
}

func TestAnalyze_RejectsEmptyClip(t *testing.T) {
	analyzer := NewAnalyzer(&fakeGenerator{response: validResponse})

	if _, err := analyzer.Analyze(context.Background(), &models.MediaClip{}, "Sales Manager", "Budi"); err == nil {
		t.Error("Expected error for empty media clip, got nil")
	}
}

func TestLazyAnalyzer_SurfacesMissingCredentialOnAnalyze(t *testing.T) {
	t.Setenv("GOOGLE_CLOUD_PROJECT", "")

	// Construction must succeed without credentials; the failure belongs to
	// the first analysis call.
	analyzer := NewLazyVertexAnalyzer()
	defer analyzer.Close()

	_, err := analyzer.Analyze(context.Background(), testClip(), "Sales Manager", "Budi")
	if !errors.Is(err, ErrMissingCredential) {
		t.Errorf("Expected ErrMissingCredential, got: %v", err)
	}
}

func TestLazyAnalyzer_CloseWithoutUse(t *testing.T) {
	if err := NewLazyVertexAnalyzer().Close(); err != nil {
		t.Errorf("Close() on an unused analyzer failed: %v", err)
	}
}

func TestParseResult_NormalizesAbsentSequences(t *testing.T) {
	result, err := parseResult(`{"summary":"s","matchScore":70,"recommendation":"MAYBE","riskLevel":"Medium"}`)
	if err != nil {
		t.Fatalf("parseResult() failed: %v", err)
	}

	if result.Questions == nil {
		t.Error("Expected questions to be normalized to an empty slice")
	}
	if result.RedFlags == nil {
		t.Error("Expected red flags to be normalized to an empty slice")
	}
}
