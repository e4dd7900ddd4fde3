package export

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/talentinsight/interview-analyzer/internal/models"
)

var borders = []excelize.Border{
	{Type: "left", Color: "000000", Style: 1},
	{Type: "right", Color: "000000", Style: 1},
	{Type: "top", Color: "000000", Style: 1},
	{Type: "bottom", Color: "000000", Style: 1},
}

// scoreFill returns the background color for a match score band
func scoreFill(score float64) string {
	switch {
	case score >= 90:
		return "C6EFCE"
	case score >= 70:
		return "FFEB9C"
	case score >= 50:
		return "FFC7CE"
	default:
		return "FF9999"
	}
}

// ExportToExcel generates an Excel report for the candidate roster
func ExportToExcel(candidates []models.Candidate, stats models.DashboardStats, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()

	// Ensure output path has .xlsx extension
	if !strings.HasSuffix(strings.ToLower(outputPath), ".xlsx") {
		outputPath = outputPath + ".xlsx"
	}

	// Clean the path for cross-platform compatibility (Windows paths)
	outputPath = filepath.Clean(outputPath)

	summarySheet := "Summary"
	candidatesSheet := "Candidates"
	detailsSheet := "Detailed Analysis"

	f.SetSheetName("Sheet1", summarySheet)
	f.NewSheet(candidatesSheet)
	f.NewSheet(detailsSheet)

	if err := createSummarySheet(f, summarySheet, candidates, stats); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}

	if err := createCandidatesSheet(f, candidatesSheet, candidates); err != nil {
		return fmt.Errorf("failed to create candidates sheet: %w", err)
	}

	if err := createDetailedAnalysisSheet(f, detailsSheet, candidates); err != nil {
		return fmt.Errorf("failed to create detailed analysis sheet: %w", err)
	}

	// Try to save the file directly
	if err := f.SaveAs(outputPath); err != nil {
		// If direct save fails, try buffer write fallback
		var buf bytes.Buffer
		if writeErr := f.Write(&buf); writeErr != nil {
			return fmt.Errorf("failed to save Excel file: direct save failed (%v), buffer write also failed: %w", err, writeErr)
		}

		if fileErr := os.WriteFile(outputPath, buf.Bytes(), 0644); fileErr != nil {
			return fmt.Errorf("failed to save Excel file: direct save failed (%v), file write failed: %w", err, fileErr)
		}
	}

	return nil
}

// createSummarySheet creates the summary sheet with roster statistics
func createSummarySheet(f *excelize.File, sheetName string, candidates []models.Candidate, stats models.DashboardStats) error {
	f.SetColWidth(sheetName, "A", "A", 28)
	f.SetColWidth(sheetName, "B", "B", 50)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	})
	if err != nil {
		return err
	}

	labelStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return err
	}

	row := 1

	f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), "Interview Analysis Report")
	f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("B%d", row), headerStyle)
	f.MergeCell(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("B%d", row))
	row += 2

	f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), "Generated:")
	f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), labelStyle)
	f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), time.Now().Format("2006-01-02 15:04:05"))
	row++

	f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), "Total Candidates:")
	f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), labelStyle)
	f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), stats.Total)
	row++

	f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), "Hired:")
	f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), labelStyle)
	f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), stats.HiredCount)
	row++

	f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), "Pending Review:")
	f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), labelStyle)
	f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), stats.PendingCount)
	row++

	f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), "Average Match Score:")
	f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), labelStyle)
	f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), stats.AverageMatchScore)
	row += 2

	f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), "Recommendations:")
	f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("B%d", row), headerStyle)
	f.MergeCell(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("B%d", row))
	row++

	yes, no, maybe := 0, 0, 0
	for _, c := range candidates {
		if !c.Analyzed() {
			continue
		}
		switch c.Analysis.Recommendation {
		case models.RecommendYes:
			yes++
		case models.RecommendNo:
			no++
		case models.RecommendMaybe:
			maybe++
		}
	}

	f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), "Recommended (YES):")
	f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), yes)
	row++

	f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), "Consider (MAYBE):")
	f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), maybe)
	row++

	f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), "Not Recommended (NO):")
	f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), no)
	row += 2

	// Score range across analyzed candidates
	var minScore, maxScore float64
	first := true
	for _, c := range candidates {
		if !c.Analyzed() {
			continue
		}
		score := c.Analysis.MatchScore
		if first {
			minScore, maxScore = score, score
			first = false
			continue
		}
		if score < minScore {
			minScore = score
		}
		if score > maxScore {
			maxScore = score
		}
	}

	if !first {
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), "Highest Match Score:")
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), fmt.Sprintf("%.0f", maxScore))
		row++

		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), "Lowest Match Score:")
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), fmt.Sprintf("%.0f", minScore))
	}

	return nil
}

// createCandidatesSheet creates the candidates sheet with color-coding by
// match score
func createCandidatesSheet(f *excelize.File, sheetName string, candidates []models.Candidate) error {
	f.SetColWidth(sheetName, "A", "A", 25)
	f.SetColWidth(sheetName, "B", "B", 22)
	f.SetColWidth(sheetName, "C", "C", 30)
	f.SetColWidth(sheetName, "D", "D", 12)
	f.SetColWidth(sheetName, "E", "E", 12)
	f.SetColWidth(sheetName, "F", "F", 16)
	f.SetColWidth(sheetName, "G", "G", 12)
	f.SetColWidth(sheetName, "H", "H", 14)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    borders,
	})
	if err != nil {
		return err
	}

	plainStyle, _ := f.NewStyle(&excelize.Style{
		Border: borders,
	})

	headers := []string{"Candidate", "Position", "Email", "Status", "Score", "Recommendation", "Risk", "Recording"}
	for col, header := range headers {
		cell := fmt.Sprintf("%s1", string(rune('A'+col)))
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for i, c := range candidates {
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), c.Name)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), c.Position)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), c.Email)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), string(c.Status))

		style := plainStyle
		if c.Analyzed() {
			score := c.Analysis.MatchScore
			f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), fmt.Sprintf("%.0f", score))
			f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), string(c.Analysis.Recommendation))
			f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), string(c.Analysis.RiskLevel))

			bandStyle, _ := f.NewStyle(&excelize.Style{
				Fill:   excelize.Fill{Type: "pattern", Color: []string{scoreFill(score)}, Pattern: 1},
				Border: borders,
			})
			style = bandStyle
		} else {
			f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), "-")
			f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), "-")
			f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), "-")
		}

		f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("G%d", row), style)

		// Recording link (Column H)
		cell := fmt.Sprintf("H%d", row)
		if c.MediaURL != "" {
			absPath, err := filepath.Abs(c.MediaURL)
			if err != nil {
				absPath = c.MediaURL
			}
			f.SetCellValue(sheetName, cell, "Open Recording")
			// Use file:// protocol with forward slashes
			fileURL := "file:///" + strings.ReplaceAll(absPath, "\\", "/")
			f.SetCellHyperLink(sheetName, cell, fileURL, "External")

			linkStyle, _ := f.NewStyle(&excelize.Style{
				Font:   &excelize.Font{Color: "0563C1", Underline: "single"},
				Border: borders,
			})
			f.SetCellStyle(sheetName, cell, cell, linkStyle)
		} else {
			f.SetCellValue(sheetName, cell, "")
			f.SetCellStyle(sheetName, cell, cell, style)
		}
	}

	// Enable auto-filter
	if len(candidates) > 0 {
		f.AutoFilter(sheetName, fmt.Sprintf("A1:H%d", len(candidates)+1), []excelize.AutoFilterOptions{})
	}

	// Freeze top row
	f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		XSplit:      0,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})

	return nil
}

// createDetailedAnalysisSheet creates the per-candidate analysis sheet with
// summaries, question breakdowns, and red flags
func createDetailedAnalysisSheet(f *excelize.File, sheetName string, candidates []models.Candidate) error {
	f.SetColWidth(sheetName, "A", "A", 25)
	f.SetColWidth(sheetName, "B", "B", 20)
	f.SetColWidth(sheetName, "C", "C", 60)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    borders,
	})
	if err != nil {
		return err
	}

	wrapStyle, _ := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
		Border:    borders,
	})

	headers := []string{"Candidate", "Section", "Detail"}
	for col, header := range headers {
		cell := fmt.Sprintf("%s1", string(rune('A'+col)))
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	row := 2
	writeRow := func(name, section, detail string) {
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), name)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), section)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), detail)
		f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("C%d", row), wrapStyle)
		f.SetRowHeight(sheetName, row, 60)
		row++
	}

	for _, c := range candidates {
		if !c.Analyzed() {
			continue
		}

		writeRow(c.Name, "Summary", c.Analysis.Summary)

		for i, q := range c.Analysis.Questions {
			detail := fmt.Sprintf("Q: %s\nA: %s\nSentiment: %s", q.Question, q.AnswerSummary, q.Sentiment)
			if len(q.KeySkills) > 0 {
				detail += "\nSkills: " + strings.Join(q.KeySkills, ", ")
			}
			writeRow(c.Name, fmt.Sprintf("Question %d", i+1), detail)
		}

		if len(c.Analysis.RedFlags) > 0 {
			writeRow(c.Name, "Red Flags", strings.Join(c.Analysis.RedFlags, "\n"))
		}
	}

	// Freeze top row
	f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		XSplit:      0,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})

	return nil
}
