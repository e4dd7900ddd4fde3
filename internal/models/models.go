package models

import (
	"fmt"
	"strings"
	"time"
)

// InterviewStatus represents a candidate's position in the hiring workflow
type InterviewStatus string

const (
	StatusPending  InterviewStatus = "Pending"
	StatusAnalyzed InterviewStatus = "Analyzed"
	StatusRejected InterviewStatus = "Rejected"
	StatusHired    InterviewStatus = "Hired"
)

// statusTransitions is the workflow transition table. The move into Analyzed
// is produced by the analysis pipeline; Rejected and Hired come from the
// review workflow. Both terminal states stay terminal.
var statusTransitions = map[InterviewStatus][]InterviewStatus{
	StatusPending:  {StatusAnalyzed},
	StatusAnalyzed: {StatusHired, StatusRejected},
	StatusRejected: {},
	StatusHired:    {},
}

// IsValid reports whether the status is one of the known workflow states
func (s InterviewStatus) IsValid() bool {
	_, ok := statusTransitions[s]
	return ok
}

// CanTransitionTo reports whether the workflow permits moving to next
func (s InterviewStatus) CanTransitionTo(next InterviewStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Sentiment classifies the tone of a single interview answer
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// IsValid reports whether the sentiment is a known value
func (s Sentiment) IsValid() bool {
	switch s {
	case SentimentPositive, SentimentNeutral, SentimentNegative:
		return true
	}
	return false
}

// Recommendation is the model's hiring verdict
type Recommendation string

const (
	RecommendYes   Recommendation = "YES"
	RecommendNo    Recommendation = "NO"
	RecommendMaybe Recommendation = "MAYBE"
)

// IsValid reports whether the recommendation is a known value
func (r Recommendation) IsValid() bool {
	switch r {
	case RecommendYes, RecommendNo, RecommendMaybe:
		return true
	}
	return false
}

// RiskLevel is the model's assessment of hiring risk
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// IsValid reports whether the risk level is a known value
func (r RiskLevel) IsValid() bool {
	switch r {
	case RiskLow, RiskMedium, RiskHigh:
		return true
	}
	return false
}

// QuestionAnalysis holds the breakdown of one interviewer question
type QuestionAnalysis struct {
	Question      string    `json:"question"`
	AnswerSummary string    `json:"answerSummary"`
	Sentiment     Sentiment `json:"sentiment"`
	KeySkills     []string  `json:"keySkills"`
}

// PersonalityTraits holds the estimated personality profile.
// The four style percentages are intended to sum to ~100 but that is
// model-supplied and not enforced. The remaining three are on a 0-10 scale.
type PersonalityTraits struct {
	Dominant            float64 `json:"dominant"`
	Analytical          float64 `json:"analytical"`
	Supportive          float64 `json:"supportive"`
	Expressive          float64 `json:"expressive"`
	LeadershipPotential float64 `json:"leadershipPotential"`
	ProblemSolving      float64 `json:"problemSolving"`
	EmotionalControl    float64 `json:"emotionalControl"`
}

// AnalysisResult is the structured output of one interview evaluation.
// It is created once per successful analysis call and embedded by value
// into its owning Candidate.
type AnalysisResult struct {
	Summary        string             `json:"summary"`
	Questions      []QuestionAnalysis `json:"questions"`
	Personality    PersonalityTraits  `json:"personality"`
	RedFlags       []string           `json:"redFlags"`
	MatchScore     float64            `json:"matchScore"`
	Recommendation Recommendation     `json:"recommendation"`
	RiskLevel      RiskLevel          `json:"riskLevel"`
}

// Validate checks enumerations and score bounds on a model-supplied result
func (a *AnalysisResult) Validate() error {
	if !a.Recommendation.IsValid() {
		return fmt.Errorf("invalid recommendation %q", a.Recommendation)
	}
	if !a.RiskLevel.IsValid() {
		return fmt.Errorf("invalid risk level %q", a.RiskLevel)
	}
	if a.MatchScore < 0 || a.MatchScore > 100 {
		return fmt.Errorf("match score %v out of range [0,100]", a.MatchScore)
	}
	for i, q := range a.Questions {
		if !q.Sentiment.IsValid() {
			return fmt.Errorf("question %d: invalid sentiment %q", i, q.Sentiment)
		}
	}
	return nil
}

// Candidate is one interviewee in the roster, with their assessment once analyzed
type Candidate struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Position string          `json:"position"`
	Email    string          `json:"email"`
	Date     string          `json:"date"` // RFC 3339 creation timestamp
	Status   InterviewStatus `json:"status"`
	Analysis *AnalysisResult `json:"analysis,omitempty"`
	MediaURL string          `json:"mediaUrl,omitempty"` // session-scoped locator, not durable
	FileName string          `json:"fileName,omitempty"`
}

// Analyzed reports whether an assessment is attached
func (c *Candidate) Analyzed() bool {
	return c.Analysis != nil
}

// DashboardStats holds the derived roster aggregates
type DashboardStats struct {
	Total             int `json:"total"`
	HiredCount        int `json:"hiredCount"`
	PendingCount      int `json:"pendingCount"`
	AverageMatchScore int `json:"averageMatchScore"`
}

// MaxMediaBytes is the upload size cap for interview recordings (25 MiB)
const MaxMediaBytes = 25 << 20

// MediaClip is an in-memory interview recording ready for analysis
type MediaClip struct {
	Data     []byte
	MIMEType string
	FileName string
}

// Size returns the payload size in bytes
func (m *MediaClip) Size() int64 {
	return int64(len(m.Data))
}

// Empty reports whether the clip carries no payload
func (m *MediaClip) Empty() bool {
	return m == nil || len(m.Data) == 0
}

// IsSupportedMediaType reports whether the MIME type belongs to the
// audio/* or video/* families accepted for interview recordings
func IsSupportedMediaType(mimeType string) bool {
	return strings.HasPrefix(mimeType, "audio/") || strings.HasPrefix(mimeType, "video/")
}

// DeriveEmail synthesizes a display email from a candidate name:
// lowercase, spaces replaced with dots, fixed placeholder domain.
// It is a display convenience, not a validated address.
func DeriveEmail(name string) string {
	local := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", ".")
	return local + "@example.com"
}

// NowISO returns the RFC 3339 UTC timestamp used for Candidate.Date
func NowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}
