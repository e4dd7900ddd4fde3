package agent

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/talentinsight/interview-analyzer/internal/analysis"
	"github.com/talentinsight/interview-analyzer/internal/ingestion"
	"github.com/talentinsight/interview-analyzer/internal/models"
)

// ProgressCallback is called to report progress during processing
type ProgressCallback func(current, total int, message string)

// Analyzer evaluates an interview recording for a candidate
type Analyzer interface {
	Analyze(ctx context.Context, clip *models.MediaClip, position, candidateName string) (*models.AnalysisResult, error)
}

// Roster receives analyzed candidates
type Roster interface {
	AddCandidate(c models.Candidate) error
}

// InterviewAgent orchestrates batch analysis of interview recordings
type InterviewAgent struct {
	FileHandler    *ingestion.FileHandler
	gmailHandler   *ingestion.GmailHandler
	gmailCredsPath string
	analyzer       Analyzer
	roster         Roster
	closer         func() error
	mu             sync.RWMutex
	progressCb     ProgressCallback
}

// NewInterviewAgent creates an agent staging recordings in uploadsDir and
// storing results in the given roster
func NewInterviewAgent(uploadsDir string, roster Roster) *InterviewAgent {
	return &InterviewAgent{
		FileHandler: ingestion.NewFileHandler(uploadsDir),
		roster:      roster,
	}
}

// SetGmailCredentials points the agent at the OAuth client credentials file
// used for Gmail intake. An empty path keeps the default lookup.
func (a *InterviewAgent) SetGmailCredentials(path string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.gmailCredsPath = path
}

// SetAnalyzer overrides the analyzer used for evaluation
func (a *InterviewAgent) SetAnalyzer(analyzer Analyzer) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.analyzer = analyzer
}

// SetProgressCallback sets the progress callback function
func (a *InterviewAgent) SetProgressCallback(cb ProgressCallback) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.progressCb = cb
}

// reportProgress calls the progress callback if set
func (a *InterviewAgent) reportProgress(current, total int, message string) {
	a.mu.RLock()
	cb := a.progressCb
	a.mu.RUnlock()

	if cb != nil {
		cb(current, total, message)
	}
}

// ensureAnalyzer lazily initializes the Vertex AI analyzer
func (a *InterviewAgent) ensureAnalyzer(ctx context.Context) (Analyzer, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.analyzer != nil {
		return a.analyzer, nil
	}

	analyzer, err := analysis.NewVertexAnalyzer(ctx)
	if err != nil {
		return nil, err
	}
	a.analyzer = analyzer
	a.closer = analyzer.Close
	return analyzer, nil
}

// IngestFromUpload analyzes recordings staged in the uploads directory
func (a *InterviewAgent) IngestFromUpload() error {
	return a.IngestFromUploadWithContext(context.Background())
}

// IngestFromUploadWithContext analyzes staged recordings with cancellation support
func (a *InterviewAgent) IngestFromUploadWithContext(ctx context.Context) error {
	a.reportProgress(0, 100, "Initializing analyzer...")

	analyzer, err := a.ensureAnalyzer(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize analyzer: %w", err)
	}

	a.reportProgress(10, 100, "Loading recordings...")

	interviews, err := a.FileHandler.LoadInterviews()
	if err != nil {
		return fmt.Errorf("failed to load recordings: %w", err)
	}

	if len(interviews) == 0 {
		return fmt.Errorf("no recordings found in uploads directory")
	}

	log.Printf("Found %d interviews to analyze", len(interviews))
	a.reportProgress(20, 100, fmt.Sprintf("Analyzing %d interviews...", len(interviews)))

	return a.processInterviews(ctx, analyzer, interviews, 20)
}

// IngestFromGmail fetches recordings from Gmail and analyzes them
func (a *InterviewAgent) IngestFromGmail(subject, position string) error {
	return a.IngestFromGmailWithContext(context.Background(), subject, position)
}

// IngestFromGmailWithContext fetches recordings from Gmail and analyzes them
// with cancellation support. Attachments are treated as interviews for the
// given position, with the sender as the candidate.
func (a *InterviewAgent) IngestFromGmailWithContext(ctx context.Context, subject, position string) error {
	a.reportProgress(0, 100, "Initializing Gmail handler...")

	a.mu.RLock()
	credsPath := a.gmailCredsPath
	a.mu.RUnlock()

	gmailHandler, err := ingestion.NewGmailHandlerWithCallback(a.FileHandler.UploadsDir(), credsPath, func(current, total int, message string) {
		// Map Gmail progress onto the first 40% of the run
		progress := 40 * current / total
		a.reportProgress(progress, 100, message)
	})
	if err != nil {
		return fmt.Errorf("failed to initialize Gmail handler: %w", err)
	}
	a.gmailHandler = gmailHandler

	a.reportProgress(5, 100, "Clearing existing uploads...")

	if err := a.FileHandler.ClearUploads(); err != nil {
		return fmt.Errorf("failed to clear uploads: %w", err)
	}

	a.reportProgress(10, 100, "Fetching recordings from Gmail...")

	if err := a.gmailHandler.FetchRecordingsWithContext(ctx, subject, position); err != nil {
		return fmt.Errorf("failed to fetch Gmail recordings: %w", err)
	}

	a.reportProgress(40, 100, "Initializing analyzer...")

	analyzer, err := a.ensureAnalyzer(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize analyzer: %w", err)
	}

	a.reportProgress(50, 100, "Loading recordings...")

	interviews, err := a.FileHandler.LoadInterviews()
	if err != nil {
		return fmt.Errorf("failed to load recordings: %w", err)
	}

	if len(interviews) == 0 {
		return fmt.Errorf("no recordings found after Gmail fetch")
	}

	log.Printf("Found %d interviews to analyze from Gmail", len(interviews))
	a.reportProgress(60, 100, fmt.Sprintf("Analyzing %d interviews...", len(interviews)))

	return a.processInterviews(ctx, analyzer, interviews, 60)
}

// processInterviews analyzes each recording and stores the results in the
// roster. A failed analysis is logged and skipped so one bad recording does
// not abort the batch.
func (a *InterviewAgent) processInterviews(ctx context.Context, analyzer Analyzer, interviews []ingestion.InterviewFile, baseProgress int) error {
	added := 0

	for i, interview := range interviews {
		// Check for cancellation
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		log.Printf("Analyzing interview %d/%d: %s", i+1, len(interviews), interview.CandidateName)

		progress := baseProgress + (35 * i / len(interviews))
		a.reportProgress(progress, 100, fmt.Sprintf("Analyzing %s (%d/%d)", interview.CandidateName, i+1, len(interviews)))

		result, err := analyzer.Analyze(ctx, interview.Clip, interview.Position, interview.CandidateName)
		if err != nil {
			log.Printf("Failed to analyze interview for %s: %v", interview.CandidateName, err)
			// Continue with next interview
			continue
		}

		candidate := models.Candidate{
			ID:       uuid.NewString(),
			Name:     interview.CandidateName,
			Position: interview.Position,
			Email:    models.DeriveEmail(interview.CandidateName),
			Date:     models.NowISO(),
			Status:   models.StatusAnalyzed,
			Analysis: result,
			MediaURL: interview.Path,
			FileName: interview.Clip.FileName,
		}

		if err := a.roster.AddCandidate(candidate); err != nil {
			log.Printf("Failed to store candidate %s: %v", interview.CandidateName, err)
			continue
		}
		added++
	}

	a.reportProgress(100, 100, "Processing complete!")

	if added == 0 {
		return fmt.Errorf("no interviews could be analyzed")
	}

	log.Printf("Stored %d analyzed candidates", added)
	return nil
}

// Close cleans up resources
func (a *InterviewAgent) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closer != nil {
		return a.closer()
	}
	return nil
}
