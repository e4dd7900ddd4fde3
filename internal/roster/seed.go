package roster

import (
	"time"

	"github.com/talentinsight/interview-analyzer/internal/models"
)

// SeedCandidates returns the demo roster used when no persisted roster
// exists yet or the stored one cannot be read.
func SeedCandidates() []models.Candidate {
	now := time.Now().UTC()

	return []models.Candidate{
		{
			ID:       "seed-1",
			Name:     "Sarah Jenkins",
			Position: "Senior Frontend Engineer",
			Email:    "sarah.j@example.com",
			Date:     now.AddDate(0, 0, -2).Format(time.RFC3339),
			Status:   models.StatusAnalyzed,
			Analysis: &models.AnalysisResult{
				Summary:    "Sarah menunjukkan pengetahuan teknis yang kuat dalam React dan manajemen state. Dia berkomunikasi dengan jelas namun sedikit kesulitan dengan konsep desain sistem.",
				MatchScore: 85,
				Questions: []models.QuestionAnalysis{
					{
						Question:      "Ceritakan tentang bug sulit yang pernah Anda selesaikan.",
						AnswerSummary: "Menjelaskan kondisi race condition dalam alur pembayaran. Menggunakan log untuk melacak masalah.",
						Sentiment:     models.SentimentPositive,
						KeySkills:     []string{"Debugging", "Ketekunan"},
					},
				},
				Personality: models.PersonalityTraits{
					Dominant:            30,
					Analytical:          80,
					Supportive:          60,
					Expressive:          40,
					LeadershipPotential: 7,
					ProblemSolving:      9,
					EmotionalControl:    8,
				},
				RedFlags:       []string{},
				Recommendation: models.RecommendYes,
				RiskLevel:      models.RiskLow,
			},
		},
		{
			ID:       "seed-2",
			Name:     "Michael Chen",
			Position: "Product Manager",
			Email:    "m.chen@example.com",
			Date:     now.AddDate(0, 0, -5).Format(time.RFC3339),
			Status:   models.StatusHired,
			Analysis: &models.AnalysisResult{
				Summary:    "Michael adalah komunikator yang sangat baik dengan pola pikir berbasis data. Dia menunjukkan empati yang besar terhadap kebutuhan pengguna.",
				MatchScore: 92,
				Questions:  []models.QuestionAnalysis{},
				Personality: models.PersonalityTraits{
					Dominant:            60,
					Analytical:          70,
					Supportive:          50,
					Expressive:          70,
					LeadershipPotential: 9,
					ProblemSolving:      8,
					EmotionalControl:    9,
				},
				RedFlags:       []string{},
				Recommendation: models.RecommendYes,
				RiskLevel:      models.RiskLow,
			},
		},
	}
}
