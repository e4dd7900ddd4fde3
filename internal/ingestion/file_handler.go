package ingestion

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/talentinsight/interview-analyzer/internal/models"
)

// mediaTypes maps accepted recording extensions to their MIME types
var mediaTypes = map[string]string{
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".m4a":  "audio/mp4",
	".ogg":  "audio/ogg",
	".webm": "audio/webm",
	".mp4":  "video/mp4",
	".mov":  "video/quicktime",
	".mkv":  "video/x-matroska",
}

// InterviewFile is a recording staged in the uploads directory, named by
// the "Name_Position.ext" convention
type InterviewFile struct {
	CandidateName string
	Position      string
	Clip          *models.MediaClip
	Path          string
}

// FileHandler manages interview recordings in the uploads directory
type FileHandler struct {
	uploadsDir string
}

// NewFileHandler creates a new file handler
func NewFileHandler(uploadsDir string) *FileHandler {
	return &FileHandler{
		uploadsDir: uploadsDir,
	}
}

// UploadsDir returns the directory recordings are staged in
func (fh *FileHandler) UploadsDir() string {
	return fh.uploadsDir
}

// MediaTypeFor returns the MIME type for a recording filename, or false if
// the extension is not an accepted audio/video format
func MediaTypeFor(filename string) (string, bool) {
	mimeType, ok := mediaTypes[strings.ToLower(filepath.Ext(filename))]
	return mimeType, ok
}

// SaveUploadedFile saves an uploaded recording to the uploads directory and
// returns its path, which doubles as the playable media locator
func (fh *FileHandler) SaveUploadedFile(filename string, content io.Reader) (string, error) {
	// Ensure uploads directory exists
	if err := os.MkdirAll(fh.uploadsDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create uploads directory: %w", err)
	}

	filePath := filepath.Join(fh.uploadsDir, filepath.Base(filename))
	file, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, content); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return filePath, nil
}

// SaveClip writes a finalized media clip into the uploads directory
func (fh *FileHandler) SaveClip(clip *models.MediaClip) (string, error) {
	return fh.SaveUploadedFile(clip.FileName, bytes.NewReader(clip.Data))
}

// LoadInterviews loads staged recordings from the uploads directory.
// Files follow the convention "Name_Position.ext"; underscores in the
// position segment become spaces. Files outside the accepted media
// extensions or the naming convention are skipped.
func (fh *FileHandler) LoadInterviews() ([]InterviewFile, error) {
	files, err := os.ReadDir(fh.uploadsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []InterviewFile{}, nil
		}
		return nil, fmt.Errorf("failed to read uploads directory: %w", err)
	}

	interviews := make([]InterviewFile, 0, len(files))
	for _, file := range files {
		if file.IsDir() {
			continue
		}

		filename := file.Name()
		mimeType, ok := MediaTypeFor(filename)
		if !ok {
			continue
		}

		ext := filepath.Ext(filename)
		baseName := strings.TrimSuffix(filename, ext)
		parts := strings.SplitN(baseName, "_", 2)
		if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
			continue
		}

		filePath := filepath.Join(fh.uploadsDir, filename)
		data, err := os.ReadFile(filePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
		}

		interviews = append(interviews, InterviewFile{
			CandidateName: parts[0],
			Position:      strings.ReplaceAll(parts[1], "_", " "),
			Clip: &models.MediaClip{
				Data:     data,
				MIMEType: mimeType,
				FileName: filename,
			},
			Path: filePath,
		})
	}

	return interviews, nil
}

// ClearUploads removes all files from the uploads directory
func (fh *FileHandler) ClearUploads() error {
	if err := os.RemoveAll(fh.uploadsDir); err != nil {
		return fmt.Errorf("failed to clear uploads directory: %w", err)
	}
	return os.MkdirAll(fh.uploadsDir, 0755)
}
