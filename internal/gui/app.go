package gui

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"github.com/talentinsight/interview-analyzer/internal/agent"
	"github.com/talentinsight/interview-analyzer/internal/analysis"
	"github.com/talentinsight/interview-analyzer/internal/config"
	"github.com/talentinsight/interview-analyzer/internal/export"
	"github.com/talentinsight/interview-analyzer/internal/ingestion"
	"github.com/talentinsight/interview-analyzer/internal/intake"
	"github.com/talentinsight/interview-analyzer/internal/models"
	"github.com/talentinsight/interview-analyzer/internal/recording"
	"github.com/talentinsight/interview-analyzer/internal/roster"
)

const (
	// gmailCredentialsFilename is the expected filename for Gmail API credentials
	gmailCredentialsFilename = "credentials.json"
)

// App represents the main GUI application
type App struct {
	fyneApp    fyne.App
	mainWindow fyne.Window
	config     *config.Config
	store      *roster.Store
	files      *ingestion.FileHandler
	recorder   *recording.Recorder
	agent      *agent.InterviewAgent
	analyzer   intake.Analyzer
	ctx        context.Context
	cancelFunc context.CancelFunc

	// Dashboard components
	statsLabel     *widget.Label
	candidateTable *widget.Table
	exportBtn      *widget.Button

	// New-interview components
	nameEntry     *widget.Entry
	positionEntry *widget.Entry
	mediaLabel    *widget.Label
	uploadBtn     *widget.Button
	recordBtn     *widget.Button
	stopBtn       *widget.Button
	discardBtn    *widget.Button
	timerLabel    *widget.Label
	submitBtn     *widget.Button
	clip          *models.MediaClip
	clipSource    intake.Source

	// Batch-intake components
	gmailStatusLabel *widget.Label
	authenticateBtn  *widget.Button
	subjectEntry     *widget.Entry
	batchPosEntry    *widget.Entry
	processBtn       *widget.Button
	cancelBtn        *widget.Button
	progressBar      *widget.ProgressBar
	progressLabel    *widget.Label

	candidates []models.Candidate
}

// NewApp creates a new GUI application
func NewApp() *App {
	a := app.New()
	w := a.NewWindow("TalentInsight Interview Analyzer")
	w.Resize(fyne.NewSize(1000, 700))

	guiApp := &App{
		fyneApp:    a,
		mainWindow: w,
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Printf("Failed to load configuration: %v", err)
		cfg = config.DefaultConfig()
	}
	guiApp.config = cfg

	// Apply config to environment
	cfg.ApplyToEnv()

	guiApp.store = roster.NewStore(roster.NewFilePersistence(cfg.RosterPath))
	guiApp.files = ingestion.NewFileHandler(cfg.UploadsDir)
	guiApp.recorder = recording.NewRecorder(recording.NewFFmpegSource(), cfg.UploadsDir)
	guiApp.agent = agent.NewInterviewAgent(cfg.UploadsDir, guiApp.store)
	guiApp.agent.SetGmailCredentials(cfg.GmailCredentialsPath)
	guiApp.candidates = guiApp.store.ListAll()

	// Setup UI
	guiApp.setupUI()

	return guiApp
}

// Run starts the GUI application
func (a *App) Run() {
	a.mainWindow.ShowAndRun()
	a.recorder.Close()
}

// ensureAnalyzer lazily creates the Vertex AI analyzer so the app can start
// without credentials configured
func (a *App) ensureAnalyzer() (intake.Analyzer, error) {
	if a.analyzer != nil {
		return a.analyzer, nil
	}

	analyzer, err := analysis.NewVertexAnalyzer(context.Background())
	if err != nil {
		return nil, err
	}
	a.analyzer = analyzer
	a.agent.SetAnalyzer(analyzer)
	return analyzer, nil
}

// setupUI initializes all UI components
func (a *App) setupUI() {
	tabs := container.NewAppTabs(
		container.NewTabItem("Dashboard", a.createDashboardTab()),
		container.NewTabItem("New Interview", a.createIntakeTab()),
		container.NewTabItem("Batch Intake", a.createBatchTab()),
		container.NewTabItem("Settings", a.createSettingsTab()),
	)

	a.mainWindow.SetContent(tabs)
}

// createDashboardTab creates the candidate overview tab
func (a *App) createDashboardTab() fyne.CanvasObject {
	a.statsLabel = widget.NewLabel("")
	a.refreshStats()

	a.candidateTable = widget.NewTable(
		func() (int, int) {
			return len(a.candidates) + 1, 6 // +1 for header
		},
		func() fyne.CanvasObject {
			return widget.NewLabel("Template")
		},
		func(id widget.TableCellID, cell fyne.CanvasObject) {
			label := cell.(*widget.Label)
			if id.Row == 0 {
				headers := []string{"Name", "Position", "Date", "Status", "Score", "Recommendation"}
				if id.Col < len(headers) {
					label.SetText(headers[id.Col])
					label.TextStyle = fyne.TextStyle{Bold: true}
				}
			} else if id.Row-1 < len(a.candidates) {
				c := a.candidates[id.Row-1]
				switch id.Col {
				case 0:
					label.SetText(c.Name)
				case 1:
					label.SetText(c.Position)
				case 2:
					label.SetText(formatDate(c.Date))
				case 3:
					label.SetText(string(c.Status))
				case 4:
					if c.Analyzed() {
						label.SetText(fmt.Sprintf("%.0f", c.Analysis.MatchScore))
					} else {
						label.SetText("-")
					}
				case 5:
					if c.Analyzed() {
						label.SetText(string(c.Analysis.Recommendation))
					} else {
						label.SetText("-")
					}
				}
			}
		},
	)
	a.candidateTable.SetColumnWidth(0, 180)
	a.candidateTable.SetColumnWidth(1, 170)
	a.candidateTable.SetColumnWidth(2, 110)
	a.candidateTable.SetColumnWidth(3, 90)
	a.candidateTable.SetColumnWidth(4, 70)
	a.candidateTable.SetColumnWidth(5, 130)

	a.candidateTable.OnSelected = func(id widget.TableCellID) {
		a.candidateTable.UnselectAll()
		if id.Row == 0 || id.Row-1 >= len(a.candidates) {
			return
		}
		a.showCandidateDetail(a.candidates[id.Row-1])
	}

	a.exportBtn = widget.NewButton("Export to Excel", a.handleExport)

	return container.NewBorder(
		a.statsLabel,
		a.exportBtn,
		nil, nil,
		a.candidateTable,
	)
}

// refreshStats recomputes the dashboard summary line
func (a *App) refreshStats() {
	stats := a.store.Stats()
	a.statsLabel.SetText(fmt.Sprintf(
		"Candidates: %d    Hired: %d    Pending Review: %d    Avg. Match Score: %d",
		stats.Total, stats.HiredCount, stats.PendingCount, stats.AverageMatchScore,
	))
}

// refreshDashboard reloads the roster into the table
func (a *App) refreshDashboard() {
	a.candidates = a.store.ListAll()
	a.candidateTable.Refresh()
	a.refreshStats()
}

// showCandidateDetail opens the analysis detail view for one candidate
func (a *App) showCandidateDetail(c models.Candidate) {
	var b strings.Builder
	fmt.Fprintf(&b, "Position: %s\n", c.Position)
	fmt.Fprintf(&b, "Email: %s\n", c.Email)
	fmt.Fprintf(&b, "Date: %s\n", formatDate(c.Date))
	fmt.Fprintf(&b, "Status: %s\n", c.Status)
	if c.MediaURL != "" {
		fmt.Fprintf(&b, "Recording: %s\n", c.MediaURL)
	}

	if c.Analyzed() {
		fmt.Fprintf(&b, "\nMatch Score: %.0f\n", c.Analysis.MatchScore)
		fmt.Fprintf(&b, "Recommendation: %s\n", c.Analysis.Recommendation)
		fmt.Fprintf(&b, "Risk Level: %s\n", c.Analysis.RiskLevel)
		fmt.Fprintf(&b, "\nSummary:\n%s\n", c.Analysis.Summary)

		for i, q := range c.Analysis.Questions {
			fmt.Fprintf(&b, "\nQuestion %d: %s\n", i+1, q.Question)
			fmt.Fprintf(&b, "Answer: %s\n", q.AnswerSummary)
			fmt.Fprintf(&b, "Sentiment: %s\n", q.Sentiment)
			if len(q.KeySkills) > 0 {
				fmt.Fprintf(&b, "Skills: %s\n", strings.Join(q.KeySkills, ", "))
			}
		}

		if len(c.Analysis.RedFlags) > 0 {
			fmt.Fprintf(&b, "\nRed Flags:\n")
			for _, flag := range c.Analysis.RedFlags {
				fmt.Fprintf(&b, "- %s\n", flag)
			}
		}
	} else {
		b.WriteString("\nNot analyzed yet.")
	}

	detail := widget.NewLabel(b.String())
	detail.Wrapping = fyne.TextWrapWord

	content := container.NewVScroll(detail)
	content.SetMinSize(fyne.NewSize(560, 420))

	d := dialog.NewCustom(c.Name, "Close", content, a.mainWindow)

	if c.Status == models.StatusAnalyzed {
		decide := func(status models.InterviewStatus) {
			if _, err := a.store.UpdateStatus(c.ID, status); err != nil {
				dialog.ShowError(err, a.mainWindow)
				return
			}
			d.Hide()
			a.refreshDashboard()
		}
		buttons := container.NewHBox(
			widget.NewButton("Hire", func() { decide(models.StatusHired) }),
			widget.NewButton("Reject", func() { decide(models.StatusRejected) }),
		)
		d = dialog.NewCustom(c.Name, "Close", container.NewBorder(nil, buttons, nil, nil, content), a.mainWindow)
	}

	d.Show()
}

// createIntakeTab creates the single-interview submission tab
func (a *App) createIntakeTab() fyne.CanvasObject {
	a.nameEntry = widget.NewEntry()
	a.nameEntry.SetPlaceHolder("e.g., Sarah Jenkins")

	a.positionEntry = widget.NewEntry()
	a.positionEntry.SetPlaceHolder("e.g., Frontend Developer")

	a.mediaLabel = widget.NewLabel("No recording attached")
	a.timerLabel = widget.NewLabel("0:00")

	a.uploadBtn = widget.NewButton("Upload Recording...", a.handleUpload)
	a.recordBtn = widget.NewButton("Start Recording", a.handleStartRecording)
	a.stopBtn = widget.NewButton("Stop", a.handleStopRecording)
	a.stopBtn.Disable()
	a.discardBtn = widget.NewButton("Discard", a.handleDiscardMedia)
	a.discardBtn.Disable()

	a.submitBtn = widget.NewButton("Submit for Analysis", a.handleSubmit)

	form := widget.NewForm(
		widget.NewFormItem("Candidate Name", a.nameEntry),
		widget.NewFormItem("Position", a.positionEntry),
	)

	mediaSection := container.NewVBox(
		widget.NewLabel("Interview Recording"),
		container.NewHBox(a.uploadBtn, a.recordBtn, a.stopBtn, a.timerLabel, a.discardBtn),
		a.mediaLabel,
	)

	return container.NewVBox(
		form,
		widget.NewSeparator(),
		mediaSection,
		widget.NewSeparator(),
		a.submitBtn,
	)
}

// handleUpload attaches a recording file to the intake form
func (a *App) handleUpload() {
	fd := dialog.NewFileOpen(func(uc fyne.URIReadCloser, err error) {
		if err != nil || uc == nil {
			return
		}
		defer uc.Close()

		name := uc.URI().Name()
		mimeType, ok := ingestion.MediaTypeFor(name)
		if !ok {
			dialog.ShowError(fmt.Errorf("unsupported recording type: %s", filepath.Ext(name)), a.mainWindow)
			return
		}

		data, err := os.ReadFile(uc.URI().Path())
		if err != nil {
			dialog.ShowError(fmt.Errorf("failed to read recording: %w", err), a.mainWindow)
			return
		}
		if int64(len(data)) > models.MaxMediaBytes {
			dialog.ShowError(fmt.Errorf("recording exceeds the %dMB limit", models.MaxMediaBytes>>20), a.mainWindow)
			return
		}

		a.clip = &models.MediaClip{Data: data, MIMEType: mimeType, FileName: name}
		a.clipSource = intake.SourceUpload
		a.mediaLabel.SetText(fmt.Sprintf("Attached upload: %s (%.1f MB)", name, float64(len(data))/(1<<20)))
		a.discardBtn.Enable()
	}, a.mainWindow)

	fd.SetFilter(storage.NewExtensionFileFilter([]string{".mp3", ".wav", ".m4a", ".ogg", ".webm", ".mp4", ".mov", ".mkv"}))
	fd.Show()
}

// handleStartRecording begins a live capture session
func (a *App) handleStartRecording() {
	if err := a.recorder.Start(context.Background()); err != nil {
		dialog.ShowError(fmt.Errorf("could not start recording: %w", err), a.mainWindow)
		return
	}

	a.recordBtn.Disable()
	a.uploadBtn.Disable()
	a.stopBtn.Enable()
	a.mediaLabel.SetText("Recording...")

	// Mirror the recorder's elapsed counter into the timer label
	go func() {
		ticker := time.NewTicker(250 * time.Millisecond)
		defer ticker.Stop()
		for range ticker.C {
			if a.recorder.State() != recording.StateRecording {
				return
			}
			fyne.Do(func() {
				a.timerLabel.SetText(a.recorder.FormatElapsed())
			})
		}
	}()
}

// handleStopRecording finalizes the capture and attaches it to the form
func (a *App) handleStopRecording() {
	a.recorder.Stop()

	a.recordBtn.Enable()
	a.uploadBtn.Enable()
	a.stopBtn.Disable()

	clip, ok := a.recorder.Clip()
	if !ok {
		a.mediaLabel.SetText("No recording captured")
		return
	}

	a.clip = clip
	a.clipSource = intake.SourceRecording
	a.mediaLabel.SetText(fmt.Sprintf("Captured recording: %s (%s)", clip.FileName, a.recorder.FormatElapsed()))
	a.discardBtn.Enable()
}

// handleDiscardMedia clears the attached recording
func (a *App) handleDiscardMedia() {
	if err := a.recorder.Reset(); err != nil {
		dialog.ShowError(err, a.mainWindow)
		return
	}
	a.clip = nil
	a.clipSource = intake.SourceNone
	a.timerLabel.SetText("0:00")
	a.mediaLabel.SetText("No recording attached")
	a.discardBtn.Disable()
}

// handleSubmit runs the analysis for the filled-in intake form
func (a *App) handleSubmit() {
	analyzer, err := a.ensureAnalyzer()
	if err != nil {
		dialog.ShowError(fmt.Errorf("analyzer unavailable: %w", err), a.mainWindow)
		return
	}

	form := intake.NewForm(analyzer, a.store)
	form.SetName(a.nameEntry.Text)
	form.SetPosition(a.positionEntry.Text)

	if a.clip != nil {
		var attachErr error
		if a.clipSource == intake.SourceRecording {
			attachErr = form.AttachRecording(a.clip, a.recorder.PreviewPath())
		} else {
			path, err := a.files.SaveClip(a.clip)
			if err != nil {
				dialog.ShowError(fmt.Errorf("failed to store recording: %w", err), a.mainWindow)
				return
			}
			attachErr = form.AttachUpload(a.clip, path)
		}
		if attachErr != nil {
			dialog.ShowError(attachErr, a.mainWindow)
			return
		}
	}

	if err := form.Validate(); err != nil {
		dialog.ShowError(err, a.mainWindow)
		return
	}

	a.submitBtn.Disable()
	a.mediaLabel.SetText("Analyzing interview...")

	go func() {
		candidate, err := form.Submit(context.Background())

		fyne.Do(func() {
			a.submitBtn.Enable()

			if err != nil {
				a.mediaLabel.SetText("Analysis failed")
				dialog.ShowError(fmt.Errorf("analysis failed: %w", err), a.mainWindow)
				return
			}

			a.nameEntry.SetText("")
			a.positionEntry.SetText("")
			a.clip = nil
			a.clipSource = intake.SourceNone
			a.timerLabel.SetText("0:00")
			a.mediaLabel.SetText("No recording attached")
			a.discardBtn.Disable()

			a.refreshDashboard()

			dialog.ShowInformation("Analysis Complete",
				fmt.Sprintf("%s scored %.0f (%s)", candidate.Name, candidate.Analysis.MatchScore, candidate.Analysis.Recommendation),
				a.mainWindow)
		})
	}()
}

// createBatchTab creates the Gmail batch-intake tab
func (a *App) createBatchTab() fyne.CanvasObject {
	a.gmailStatusLabel = widget.NewLabel("Gmail: Not Authenticated")
	a.authenticateBtn = widget.NewButton("Authenticate Gmail", a.handleAuthenticate)

	authSection := container.NewVBox(
		widget.NewLabel("Gmail Authentication"),
		container.NewHBox(a.gmailStatusLabel, a.authenticateBtn),
	)

	a.subjectEntry = widget.NewEntry()
	a.subjectEntry.SetPlaceHolder("e.g., Interview Submission")

	a.batchPosEntry = widget.NewEntry()
	a.batchPosEntry.SetPlaceHolder("e.g., Sales Manager")

	filterSection := container.NewVBox(
		widget.NewForm(
			widget.NewFormItem("Email Subject Filter", a.subjectEntry),
			widget.NewFormItem("Position", a.batchPosEntry),
		),
	)

	a.progressBar = widget.NewProgressBar()
	a.progressLabel = widget.NewLabel("Ready")
	a.processBtn = widget.NewButton("Fetch and Analyze", a.handleProcess)
	a.cancelBtn = widget.NewButton("Cancel", a.handleCancel)
	a.cancelBtn.Disable()

	progressSection := container.NewVBox(
		a.progressLabel,
		a.progressBar,
		container.NewHBox(a.processBtn, a.cancelBtn),
	)

	return container.NewVBox(
		authSection,
		widget.NewSeparator(),
		filterSection,
		widget.NewSeparator(),
		progressSection,
	)
}

// handleAuthenticate handles Gmail authentication
func (a *App) handleAuthenticate() {
	credsPath := a.config.GmailCredentialsPath
	if credsPath == "" {
		credsPath = gmailCredentialsFilename
	}

	if _, err := os.Stat(credsPath); os.IsNotExist(err) {
		dialog.ShowError(fmt.Errorf("%s not found. Please configure Gmail credentials in Settings", credsPath), a.mainWindow)
		return
	}

	progressDialog := dialog.NewCustomWithoutButtons("Authenticating",
		widget.NewLabel("Authenticating with Gmail...\nCheck the console for the OAuth URL if your browser doesn't open."),
		a.mainWindow)
	progressDialog.Show()

	a.authenticateBtn.Disable()

	go func() {
		// Handler creation runs the OAuth flow when no token is cached
		_, err := ingestion.NewGmailHandlerWithCallback(a.config.UploadsDir, credsPath, nil)

		// All UI updates must be done on the main thread using fyne.Do
		if err != nil {
			fyne.Do(func() {
				progressDialog.Hide()
				a.authenticateBtn.Enable()
				dialog.ShowError(fmt.Errorf("authentication failed: %w", err), a.mainWindow)
			})
			return
		}

		fyne.Do(func() {
			progressDialog.Hide()
			a.authenticateBtn.Enable()
			a.gmailStatusLabel.SetText("Gmail: Authenticated")
			dialog.ShowInformation("Success", "Gmail authenticated successfully!\nYou can now fetch interview recordings from Gmail.", a.mainWindow)
		})
	}()
}

// handleProcess runs the Gmail batch intake
func (a *App) handleProcess() {
	if a.subjectEntry.Text == "" {
		dialog.ShowError(fmt.Errorf("please enter an email subject filter"), a.mainWindow)
		return
	}
	if a.batchPosEntry.Text == "" {
		dialog.ShowError(fmt.Errorf("please enter the position the interviews are for"), a.mainWindow)
		return
	}

	if _, err := a.ensureAnalyzer(); err != nil {
		dialog.ShowError(fmt.Errorf("analyzer unavailable: %w", err), a.mainWindow)
		return
	}

	a.processBtn.Disable()
	a.cancelBtn.Enable()

	a.ctx, a.cancelFunc = context.WithCancel(context.Background())

	a.agent.SetProgressCallback(func(current, total int, message string) {
		fyne.Do(func() {
			a.progressBar.SetValue(float64(current) / float64(total))
			a.progressLabel.SetText(message)
		})
	})

	go func() {
		err := a.agent.IngestFromGmailWithContext(a.ctx, a.subjectEntry.Text, a.batchPosEntry.Text)

		// Wrap ALL UI updates in fyne.Do()
		fyne.Do(func() {
			a.processBtn.Enable()
			a.cancelBtn.Disable()

			if err != nil {
				if err == context.Canceled {
					a.progressLabel.SetText("Processing canceled")
				} else {
					a.progressLabel.SetText("Error: " + err.Error())
					dialog.ShowError(err, a.mainWindow)
				}
				return
			}

			a.refreshDashboard()
			a.progressLabel.SetText(fmt.Sprintf("Complete! Roster now holds %d candidates", a.store.Len()))

			fyne.CurrentApp().SendNotification(&fyne.Notification{
				Title:   "Batch Intake Complete",
				Content: fmt.Sprintf("Roster now holds %d candidates", a.store.Len()),
			})
		})
	}()
}

// handleCancel handles cancellation of processing
func (a *App) handleCancel() {
	if a.cancelFunc != nil {
		a.cancelFunc()
		a.progressLabel.SetText("Canceling...")
	}
}

// handleExport handles exporting the roster to Excel
func (a *App) handleExport() {
	if a.store.Len() == 0 {
		dialog.ShowError(fmt.Errorf("no candidates to export"), a.mainWindow)
		return
	}

	timestamp := time.Now().Format("2006-01-02_150405")
	defaultName := fmt.Sprintf("Interview_Report_%s.xlsx", timestamp)

	fd := dialog.NewFileSave(func(uc fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, a.mainWindow)
			return
		}
		if uc == nil {
			return // User canceled
		}
		defer uc.Close()

		outputPath := uc.URI().Path()

		if err := export.ExportToExcel(a.store.ListAll(), a.store.Stats(), outputPath); err != nil {
			dialog.ShowError(fmt.Errorf("failed to export: %w", err), a.mainWindow)
			return
		}

		dialog.ShowInformation("Success", "Report exported successfully to "+filepath.Base(outputPath), a.mainWindow)
	}, a.mainWindow)

	fd.SetFileName(defaultName)
	fd.Show()
}

// createSettingsTab creates the settings tab
func (a *App) createSettingsTab() fyne.CanvasObject {
	projectEntry := widget.NewEntry()
	projectEntry.SetText(a.config.GoogleCloudProject)

	locationEntry := widget.NewEntry()
	locationEntry.SetText(a.config.GoogleCloudLocation)

	googleCredsEntry := widget.NewEntry()
	googleCredsEntry.SetText(a.config.GoogleCredentialsPath)

	gmailCredsEntry := widget.NewEntry()
	gmailCredsEntry.SetText(a.config.GmailCredentialsPath)

	googleCredsBtn := widget.NewButton("Browse...", func() {
		dialog.ShowFileOpen(func(uc fyne.URIReadCloser, err error) {
			if err == nil && uc != nil {
				googleCredsEntry.SetText(uc.URI().Path())
				uc.Close()
			}
		}, a.mainWindow)
	})

	gmailCredsBtn := widget.NewButton("Browse...", func() {
		dialog.ShowFileOpen(func(uc fyne.URIReadCloser, err error) {
			if err == nil && uc != nil {
				gmailCredsEntry.SetText(uc.URI().Path())
				uc.Close()
			}
		}, a.mainWindow)
	})

	form := widget.NewForm(
		widget.NewFormItem("Google Cloud Project", projectEntry),
		widget.NewFormItem("Google Cloud Location", locationEntry),
		widget.NewFormItem("Google Credentials", container.NewBorder(nil, nil, nil, googleCredsBtn, googleCredsEntry)),
		widget.NewFormItem("Gmail Credentials", container.NewBorder(nil, nil, nil, gmailCredsBtn, gmailCredsEntry)),
	)

	saveBtn := widget.NewButton("Save Settings", func() {
		a.config.GoogleCloudProject = projectEntry.Text
		a.config.GoogleCloudLocation = locationEntry.Text
		a.config.GoogleCredentialsPath = googleCredsEntry.Text
		a.config.GmailCredentialsPath = gmailCredsEntry.Text

		if err := a.config.Save(); err != nil {
			dialog.ShowError(err, a.mainWindow)
			return
		}

		// Apply to environment
		a.config.ApplyToEnv()
		a.agent.SetGmailCredentials(a.config.GmailCredentialsPath)

		dialog.ShowInformation("Success", "Settings saved successfully", a.mainWindow)
	})

	testBtn := widget.NewButton("Test Connection", func() {
		if err := a.config.Validate(); err != nil {
			dialog.ShowError(fmt.Errorf("validation failed: %w", err), a.mainWindow)
			return
		}
		dialog.ShowInformation("Success", "Configuration is valid", a.mainWindow)
	})

	return container.NewVBox(
		form,
		container.NewHBox(saveBtn, testBtn),
	)
}

// formatDate renders an RFC3339 timestamp as a short date
func formatDate(iso string) string {
	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		return iso
	}
	return t.Format("2006-01-02")
}
