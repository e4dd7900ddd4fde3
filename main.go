package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/talentinsight/interview-analyzer/internal/analysis"
	"github.com/talentinsight/interview-analyzer/internal/api"
	"github.com/talentinsight/interview-analyzer/internal/config"
	"github.com/talentinsight/interview-analyzer/internal/gui"
	"github.com/talentinsight/interview-analyzer/internal/ingestion"
	"github.com/talentinsight/interview-analyzer/internal/roster"
)

func main() {
	useGUI := flag.Bool("gui", false, "launch the desktop interface instead of the HTTP API")
	flag.Parse()

	if *useGUI {
		gui.NewApp().Run()
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Printf("Failed to load configuration: %v", err)
		cfg = config.DefaultConfig()
	}
	cfg.ApplyToEnv()

	store := roster.NewStore(roster.NewFilePersistence(cfg.RosterPath))
	files := ingestion.NewFileHandler(cfg.UploadsDir)

	// The Vertex AI client is created on the first submission, so the API can
	// start without credentials and report the failure per request.
	analyzer := analysis.NewLazyVertexAnalyzer()
	defer analyzer.Close()

	server := api.NewServer(store, analyzer, files)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	fmt.Printf("Starting TalentInsight Interview Analyzer on port %s...\n", port)
	fmt.Printf("Endpoints:\n")
	fmt.Printf("  POST /interviews - Submit an interview recording for analysis\n")
	fmt.Printf("  GET /candidates - List candidates, newest first\n")
	fmt.Printf("  GET /dashboard - Roster statistics\n")
	fmt.Printf("  GET /export - Download the roster as an Excel report\n")

	if err := http.ListenAndServe(":"+port, server.Router()); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
