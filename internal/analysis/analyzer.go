package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/talentinsight/interview-analyzer/internal/llm"
	"github.com/talentinsight/interview-analyzer/internal/models"
)

// ErrMissingCredential indicates no AI credential is configured.
var ErrMissingCredential = llm.ErrMissingCredential

// ErrEmptyResponse indicates the model returned no text at all.
var ErrEmptyResponse = errors.New("no response from AI model")

// ErrMalformedResponse indicates the model's text could not be parsed into
// the declared result schema.
var ErrMalformedResponse = errors.New("malformed AI response")

// MediaGenerator is the slice of the LLM client the analyzer needs
type MediaGenerator interface {
	GenerateFromMedia(ctx context.Context, mimeType string, data []byte, prompt string) (string, error)
}

// Analyzer evaluates interview recordings through the AI model. It is a pure
// request/response boundary: it never touches the roster or the intake form.
type Analyzer struct {
	gen MediaGenerator
}

// NewAnalyzer creates an analyzer over an arbitrary media generator
func NewAnalyzer(gen MediaGenerator) *Analyzer {
	return &Analyzer{gen: gen}
}

// NewVertexAnalyzer creates an analyzer backed by Vertex AI Gemini with the
// evaluation rubric and response schema pre-configured
func NewVertexAnalyzer(ctx context.Context) (*Analyzer, error) {
	client, err := llm.NewVertexAIClient(ctx)
	if err != nil {
		return nil, err
	}
	client.SetSystemInstruction(SystemPrompt)
	client.SetResponseSchema(responseSchema())
	return &Analyzer{gen: client}, nil
}

// Close releases the underlying model client if it holds one
func (a *Analyzer) Close() error {
	if c, ok := a.gen.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// LazyAnalyzer defers Vertex AI client creation until the first analysis, so
// a caller can start without credentials configured and surface the failure
// per request instead of at startup.
type LazyAnalyzer struct {
	mu       sync.Mutex
	delegate *Analyzer
}

// NewLazyVertexAnalyzer creates an analyzer whose Vertex AI client is built
// on first use
func NewLazyVertexAnalyzer() *LazyAnalyzer {
	return &LazyAnalyzer{}
}

func (l *LazyAnalyzer) ensure(ctx context.Context) (*Analyzer, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.delegate != nil {
		return l.delegate, nil
	}

	delegate, err := NewVertexAnalyzer(ctx)
	if err != nil {
		return nil, err
	}
	l.delegate = delegate
	return delegate, nil
}

// Analyze initializes the underlying analyzer if needed and delegates to it
func (l *LazyAnalyzer) Analyze(ctx context.Context, clip *models.MediaClip, position, candidateName string) (*models.AnalysisResult, error) {
	delegate, err := l.ensure(ctx)
	if err != nil {
		return nil, err
	}
	return delegate.Analyze(ctx, clip, position, candidateName)
}

// Close releases the model client if one was ever created
func (l *LazyAnalyzer) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.delegate == nil {
		return nil
	}
	return l.delegate.Close()
}

// Analyze sends the recording plus the per-call prompt to the model and
// returns the parsed assessment. Failures propagate to the caller; no retry
// is attempted here.
func (a *Analyzer) Analyze(ctx context.Context, clip *models.MediaClip, position, candidateName string) (*models.AnalysisResult, error) {
	if clip.Empty() {
		return nil, fmt.Errorf("no media payload to analyze")
	}

	prompt := buildPrompt(candidateName, position)

	text, err := a.gen.GenerateFromMedia(ctx, clip.MIMEType, clip.Data, prompt)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyResponse
	}

	result, err := parseResult(text)
	if err != nil {
		return nil, err
	}

	return result, nil
}

// parseResult strictly decodes the model text into an AnalysisResult. The
// external payload's shape is never trusted: enumerations and score bounds
// are checked after decoding, and absent sequences are normalized to empty
// ones so "no flags" stays distinct from "not analyzed".
func parseResult(text string) (*models.AnalysisResult, error) {
	// Find JSON in the response in case the model added stray text
	startIdx := strings.Index(text, "{")
	endIdx := strings.LastIndex(text, "}")
	if startIdx == -1 || endIdx == -1 || endIdx < startIdx {
		return nil, fmt.Errorf("%w: no JSON object found", ErrMalformedResponse)
	}

	var result models.AnalysisResult
	if err := json.Unmarshal([]byte(text[startIdx:endIdx+1]), &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if err := result.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if result.RedFlags == nil {
		result.RedFlags = []string{}
	}
	if result.Questions == nil {
		result.Questions = []models.QuestionAnalysis{}
	}
	for i := range result.Questions {
		if result.Questions[i].KeySkills == nil {
			result.Questions[i].KeySkills = []string{}
		}
	}

	return &result, nil
}
