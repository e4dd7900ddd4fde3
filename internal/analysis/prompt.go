package analysis

import (
	"fmt"

	"cloud.google.com/go/vertexai/genai"
)

// SystemPrompt is the fixed evaluation rubric attached to every analysis
// call. All free-text output is requested in Bahasa Indonesia.
const SystemPrompt = `Anda adalah Analis Wawancara HR AI ahli untuk TalentInsight.
Tugas Anda adalah menganalisis file audio/video wawancara yang diberikan.

Mohon lakukan langkah-langkah berikut:
1. **Transkripsi & Ringkasan**: Identifikasi pertanyaan pewawancara dan jawaban kandidat. Ringkas jawaban secara efisien.
2. **Analisis Kepribadian**: Berdasarkan nada bicara, pilihan kata, dan struktur, perkirakan sifat kepribadian mereka (Dominan, Analitis, Suportif, Ekspresif) dalam persentase total 100%. Beri nilai kepemimpinan, pemecahan masalah, dan kontrol emosi pada skala 1-10.
3. **Deteksi Red Flag**: Cari sikap defensif, ketidakkonsistenan, ketidakjelasan, atau negativitas.
4. **Skor**: Berikan skor kecocokan (0-100) berdasarkan kompetensi umum untuk peran profesional.
5. **Rekomendasi**: YES, NO, atau MAYBE.

**PENTING**: Semua output teks (summary, answerSummary, keySkills, redFlags) HARUS dalam BAHASA INDONESIA.

**FORMAT OUTPUT**: Kembalikan HANYA JSON yang valid sesuai skema respons. Jangan gunakan blok kode Markdown.`

// buildPrompt creates the per-call prompt naming the candidate and position
func buildPrompt(candidateName, position string) string {
	return fmt.Sprintf(`Nama Kandidat: %s
Posisi yang Dilamar: %s

Mohon analisis rekaman wawancara ini berdasarkan instruksi sistem yang diberikan.
Gunakan Bahasa Indonesia untuk semua output teks.`, candidateName, position)
}

// responseSchema declares the JSON shape the model must return. Field names
// and enumerations mirror models.AnalysisResult exactly.
func responseSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"summary": {Type: genai.TypeString},
			"questions": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"question":      {Type: genai.TypeString},
						"answerSummary": {Type: genai.TypeString},
						"sentiment": {
							Type: genai.TypeString,
							Enum: []string{"positive", "neutral", "negative"},
						},
						"keySkills": {
							Type:  genai.TypeArray,
							Items: &genai.Schema{Type: genai.TypeString},
						},
					},
				},
			},
			"personality": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"dominant":            {Type: genai.TypeNumber},
					"analytical":          {Type: genai.TypeNumber},
					"supportive":          {Type: genai.TypeNumber},
					"expressive":          {Type: genai.TypeNumber},
					"leadershipPotential": {Type: genai.TypeNumber},
					"problemSolving":      {Type: genai.TypeNumber},
					"emotionalControl":    {Type: genai.TypeNumber},
				},
			},
			"redFlags": {
				Type:  genai.TypeArray,
				Items: &genai.Schema{Type: genai.TypeString},
			},
			"matchScore": {Type: genai.TypeNumber},
			"recommendation": {
				Type: genai.TypeString,
				Enum: []string{"YES", "NO", "MAYBE"},
			},
			"riskLevel": {
				Type: genai.TypeString,
				Enum: []string{"Low", "Medium", "High"},
			},
		},
	}
}
