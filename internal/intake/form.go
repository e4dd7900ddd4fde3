package intake

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/talentinsight/interview-analyzer/internal/models"
)

// submitTimeout bounds the analysis round-trip so a hung external call can
// never block the form indefinitely. No retry is attempted; a timed-out
// submission is surfaced like any other failure and resubmitted manually.
const submitTimeout = 3 * time.Minute

var (
	// ErrSubmissionInProgress guards against a concurrent double submission
	// at the data layer, independent of any UI disabling.
	ErrSubmissionInProgress = errors.New("a submission is already in progress")

	// ErrFileTooLarge rejects uploads over the 25 MiB cap before they are
	// ever accepted into the form.
	ErrFileTooLarge = errors.New("file is too large; the limit is 25 MiB")

	// ErrUnsupportedMediaType rejects files outside the audio/* and
	// video/* MIME families.
	ErrUnsupportedMediaType = errors.New("only audio and video files are supported")
)

// ValidationError reports an incomplete or invalid form field
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Source distinguishes how the interview media entered the form
type Source string

const (
	SourceNone      Source = ""
	SourceUpload    Source = "upload"
	SourceRecording Source = "recording"
)

// Analyzer is the analysis boundary the form submits to
type Analyzer interface {
	Analyze(ctx context.Context, clip *models.MediaClip, position, candidateName string) (*models.AnalysisResult, error)
}

// Roster receives the candidate built from a successful submission
type Roster interface {
	AddCandidate(c models.Candidate) error
}

// Form holds the new-interview intake state: candidate name, position, and
// exactly one selected media source. Submission is serialized; while a call
// is outstanding the form is in a submitting state and rejects re-entry.
type Form struct {
	analyzer Analyzer
	roster   Roster
	timeout  time.Duration

	mu         sync.Mutex
	name       string
	position   string
	media      *models.MediaClip
	mediaURL   string
	source     Source
	submitting bool
}

// NewForm creates an empty intake form
func NewForm(analyzer Analyzer, roster Roster) *Form {
	return &Form{
		analyzer: analyzer,
		roster:   roster,
		timeout:  submitTimeout,
	}
}

// SetName sets the candidate name
func (f *Form) SetName(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.name = name
}

// SetPosition sets the applied-for position
func (f *Form) SetPosition(position string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.position = position
}

// AttachUpload accepts an uploaded file as the interview source. Oversized
// or non-media files are rejected before acceptance, leaving any previous
// selection in place. A previously captured recording selection is cleared.
func (f *Form) AttachUpload(clip *models.MediaClip, mediaURL string) error {
	if err := checkMedia(clip); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.media = clip
	f.mediaURL = mediaURL
	f.source = SourceUpload
	return nil
}

// AttachRecording accepts a finalized live recording as the interview
// source, clearing any uploaded-file selection.
func (f *Form) AttachRecording(clip *models.MediaClip, previewURL string) error {
	if err := checkMedia(clip); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.media = clip
	f.mediaURL = previewURL
	f.source = SourceRecording
	return nil
}

func checkMedia(clip *models.MediaClip) error {
	if clip.Empty() {
		return &ValidationError{Field: "media", Message: "interview recording is required"}
	}
	if clip.Size() > models.MaxMediaBytes {
		return ErrFileTooLarge
	}
	if !models.IsSupportedMediaType(clip.MIMEType) {
		return ErrUnsupportedMediaType
	}
	return nil
}

// ClearMedia drops the selected media source
func (f *Form) ClearMedia() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.media = nil
	f.mediaURL = ""
	f.source = SourceNone
}

// Validate checks that name, position, and a media source are all present
func (f *Form) Validate() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.validateLocked()
}

func (f *Form) validateLocked() error {
	if f.name == "" {
		return &ValidationError{Field: "name", Message: "candidate name is required"}
	}
	if f.position == "" {
		return &ValidationError{Field: "position", Message: "position is required"}
	}
	if f.media.Empty() {
		return &ValidationError{Field: "media", Message: "interview recording is required"}
	}
	return nil
}

// Submit validates the form, runs the analysis, and hands the resulting
// candidate to the roster. On success the form is cleared; on any failure
// the inputs stay intact, the error is surfaced verbatim, and the form
// returns to idle so the user can correct and resubmit.
func (f *Form) Submit(ctx context.Context) (models.Candidate, error) {
	f.mu.Lock()
	if f.submitting {
		f.mu.Unlock()
		return models.Candidate{}, ErrSubmissionInProgress
	}
	if err := f.validateLocked(); err != nil {
		f.mu.Unlock()
		return models.Candidate{}, err
	}
	f.submitting = true
	name := f.name
	position := f.position
	clip := f.media
	mediaURL := f.mediaURL
	f.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	result, err := f.analyzer.Analyze(ctx, clip, position, name)
	if err != nil {
		f.endSubmission()
		return models.Candidate{}, err
	}

	candidate := models.Candidate{
		ID:       uuid.NewString(),
		Name:     name,
		Position: position,
		Email:    models.DeriveEmail(name),
		Date:     models.NowISO(),
		Status:   models.StatusAnalyzed,
		Analysis: result,
		MediaURL: mediaURL,
		FileName: clip.FileName,
	}

	if err := f.roster.AddCandidate(candidate); err != nil {
		f.endSubmission()
		return models.Candidate{}, err
	}

	f.mu.Lock()
	f.name = ""
	f.position = ""
	f.media = nil
	f.mediaURL = ""
	f.source = SourceNone
	f.submitting = false
	f.mu.Unlock()

	return candidate, nil
}

func (f *Form) endSubmission() {
	f.mu.Lock()
	f.submitting = false
	f.mu.Unlock()
}

// Submitting reports whether a submission is outstanding
func (f *Form) Submitting() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitting
}

// Name returns the current candidate name input
func (f *Form) Name() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.name
}

// Position returns the current position input
func (f *Form) Position() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.position
}

// Media returns the selected media clip and its source kind
func (f *Form) Media() (*models.MediaClip, Source) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.media, f.source
}
