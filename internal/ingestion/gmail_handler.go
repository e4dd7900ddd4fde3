package ingestion

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// ProgressFunc reports fetch progress to the caller
type ProgressFunc func(current, total int, message string)

// GmailHandler fetches interview recordings attached to emails
type GmailHandler struct {
	service    *gmail.Service
	uploadsDir string
	progress   ProgressFunc
}

// NewGmailHandler creates a new Gmail handler. credentialsPath points at the
// OAuth client credentials file; an empty path falls back to credentials.json
// in the working directory.
func NewGmailHandler(uploadsDir, credentialsPath string) (*GmailHandler, error) {
	return NewGmailHandlerWithCallback(uploadsDir, credentialsPath, nil)
}

// NewGmailHandlerWithCallback creates a Gmail handler that reports fetch
// progress through the given callback
func NewGmailHandlerWithCallback(uploadsDir, credentialsPath string, progress ProgressFunc) (*GmailHandler, error) {
	ctx := context.Background()

	config, err := loadOAuthConfig(credentialsPath)
	if err != nil {
		return nil, err
	}

	client := getClient(config)
	srv, err := gmail.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create Gmail client: %w", err)
	}

	return &GmailHandler{
		service:    srv,
		uploadsDir: uploadsDir,
		progress:   progress,
	}, nil
}

// loadOAuthConfig reads and parses the OAuth client credentials at path.
// An empty path falls back to credentials.json in the working directory.
func loadOAuthConfig(path string) (*oauth2.Config, error) {
	if path == "" {
		path = "credentials.json"
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read credentials file: %w", err)
	}

	config, err := google.ConfigFromJSON(b, gmail.GmailReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse credentials: %w", err)
	}
	return config, nil
}

// getClient retrieves a token, saves it, then returns the generated client
func getClient(config *oauth2.Config) *http.Client {
	tokFile := "token.json"
	tok, err := tokenFromFile(tokFile)
	if err != nil {
		tok = getTokenFromWeb(config)
		saveToken(tokFile, tok)
	}
	return config.Client(context.Background(), tok)
}

// getTokenFromWeb requests a token from the web
func getTokenFromWeb(config *oauth2.Config) *oauth2.Token {
	authURL := config.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Printf("Go to the following link in your browser then type the authorization code: \n%v\n", authURL)

	var authCode string
	if _, err := fmt.Scan(&authCode); err != nil {
		log.Fatalf("Unable to read authorization code: %v", err)
	}

	tok, err := config.Exchange(context.TODO(), authCode)
	if err != nil {
		log.Fatalf("Unable to retrieve token from web: %v", err)
	}
	return tok
}

// tokenFromFile retrieves a token from a local file
func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(tok)
	return tok, err
}

// saveToken saves a token to a file path
func saveToken(path string, token *oauth2.Token) {
	fmt.Printf("Saving credential file to: %s\n", path)
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		log.Fatalf("Unable to cache oauth token: %v", err)
	}
	defer f.Close()
	json.NewEncoder(f).Encode(token)
}

func (gh *GmailHandler) reportProgress(current, total int, message string) {
	if gh.progress != nil {
		gh.progress(current, total, message)
	}
}

// FetchRecordings fetches audio/video attachments from emails matching the
// subject filter and stages them under the "Name_Position.ext" convention,
// with the sender as the candidate name.
func (gh *GmailHandler) FetchRecordings(subject, position string) error {
	return gh.FetchRecordingsWithContext(context.Background(), subject, position)
}

// FetchRecordingsWithContext fetches recordings with cancellation support
func (gh *GmailHandler) FetchRecordingsWithContext(ctx context.Context, subject, position string) error {
	// Ensure uploads directory exists
	if err := os.MkdirAll(gh.uploadsDir, 0755); err != nil {
		return fmt.Errorf("failed to create uploads directory: %w", err)
	}

	user := "me"
	query := fmt.Sprintf("subject:%s has:attachment", subject)

	r, err := gh.service.Users.Messages.List(user).Q(query).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("unable to retrieve messages: %w", err)
	}

	if len(r.Messages) == 0 {
		return fmt.Errorf("no messages found with subject: %s", subject)
	}

	positionSegment := strings.ReplaceAll(strings.TrimSpace(position), " ", "_")

	for i, msg := range r.Messages {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		gh.reportProgress(i+1, len(r.Messages), fmt.Sprintf("Fetching message %d/%d", i+1, len(r.Messages)))

		message, err := gh.service.Users.Messages.Get(user, msg.Id).Context(ctx).Do()
		if err != nil {
			log.Printf("Unable to retrieve message %s: %v", msg.Id, err)
			continue
		}

		// Extract sender name for file naming
		senderName := extractSenderName(message)

		// Process attachments, keeping only audio/video recordings
		for _, part := range message.Payload.Parts {
			if part.Filename == "" || part.Body.AttachmentId == "" {
				continue
			}
			if _, ok := MediaTypeFor(part.Filename); !ok {
				log.Printf("Skipping non-media attachment: %s", part.Filename)
				continue
			}

			attachment, err := gh.service.Users.Messages.Attachments.Get(user, msg.Id, part.Body.AttachmentId).Context(ctx).Do()
			if err != nil {
				log.Printf("Unable to retrieve attachment: %v", err)
				continue
			}

			data, err := base64.URLEncoding.DecodeString(attachment.Data)
			if err != nil {
				log.Printf("Unable to decode attachment: %v", err)
				continue
			}

			newFilename := fmt.Sprintf("%s_%s%s", senderName, positionSegment, filepath.Ext(part.Filename))
			filePath := filepath.Join(gh.uploadsDir, newFilename)
			if err := os.WriteFile(filePath, data, 0644); err != nil {
				log.Printf("Unable to write file %s: %v", filePath, err)
				continue
			}

			log.Printf("Downloaded recording: %s", newFilename)
		}
	}

	return nil
}

// extractSenderName extracts the sender's name from email headers. The name
// becomes the segment before the first underscore in the staged filename, so
// underscores are replaced to keep the name/position split intact.
func extractSenderName(message *gmail.Message) string {
	for _, header := range message.Payload.Headers {
		if header.Name == "From" {
			// Parse "Name <email@example.com>" format
			from := header.Value
			if idx := strings.Index(from, "<"); idx > 0 {
				name := strings.TrimSpace(from[:idx])
				name = strings.Trim(name, `"`)
				if name != "" {
					return sanitizeNameSegment(name)
				}
			}
			// If no name, use email prefix
			addr := strings.Trim(from, "<> ")
			if idx := strings.Index(addr, "@"); idx > 0 {
				return sanitizeNameSegment(addr[:idx])
			}
			return "Unknown"
		}
	}
	return "Unknown"
}

func sanitizeNameSegment(name string) string {
	name = strings.TrimSpace(strings.ReplaceAll(name, "_", " "))
	if name == "" {
		return "Unknown"
	}
	return name
}
