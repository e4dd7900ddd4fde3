package ingestion

import (
	"os"
	"path/filepath"
	"testing"

	"google.golang.org/api/gmail/v1"
)

func messageFrom(from string) *gmail.Message {
	return &gmail.Message{
		Payload: &gmail.MessagePart{
			Headers: []*gmail.MessagePartHeader{
				{Name: "From", Value: from},
			},
		},
	}
}

func TestExtractSenderName(t *testing.T) {
	tests := []struct {
		name string
		from string
		want string
	}{
		{"display name", "Sarah Jenkins <sarah@example.com>", "Sarah Jenkins"},
		{"quoted display name", `"Michael Chen" <mchen@example.com>`, "Michael Chen"},
		{"email prefix fallback", "<budi.santoso@example.com>", "budi.santoso"},
		{"bare email", "rina@example.com", "rina"},
		{"no from header", "", "Unknown"},
		// Underscores would corrupt the Name_Position staging convention
		{"underscore in display name", "Budi_Santoso <budi@example.com>", "Budi Santoso"},
		{"underscore in email prefix", "<budi_santoso@example.com>", "budi santoso"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var msg *gmail.Message
			if tt.from == "" {
				msg = &gmail.Message{Payload: &gmail.MessagePart{}}
			} else {
				msg = messageFrom(tt.from)
			}
			if got := extractSenderName(msg); got != tt.want {
				t.Errorf("extractSenderName(%q) = %q, want %q", tt.from, got, tt.want)
			}
		})
	}
}

func TestLoadOAuthConfig_ConfiguredPath(t *testing.T) {
	creds := `{"installed":{"client_id":"id","client_secret":"secret","redirect_uris":["http://localhost"],"auth_uri":"https://accounts.google.com/o/oauth2/auth","token_uri":"https://oauth2.googleapis.com/token"}}`

	path := filepath.Join(t.TempDir(), "gmail-creds.json")
	if err := os.WriteFile(path, []byte(creds), 0600); err != nil {
		t.Fatalf("Failed to write credentials fixture: %v", err)
	}

	config, err := loadOAuthConfig(path)
	if err != nil {
		t.Fatalf("loadOAuthConfig() failed for configured path: %v", err)
	}
	if config.ClientID != "id" {
		t.Errorf("Expected client id from configured file, got %q", config.ClientID)
	}
}

func TestLoadOAuthConfig_MissingFile(t *testing.T) {
	if _, err := loadOAuthConfig(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("Expected error for missing credentials file")
	}
}
