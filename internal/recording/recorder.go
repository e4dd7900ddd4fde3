package recording

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/talentinsight/interview-analyzer/internal/models"
)

// State tracks the capture lifecycle
type State string

const (
	StateIdle      State = "idle"
	StateRecording State = "recording"
	StateCaptured  State = "captured"
)

// ErrAlreadyRecording is returned when Start is called during an active
// session. A second concurrent recording is rejected, not coalesced.
var ErrAlreadyRecording = errors.New("recording already in progress")

// ChunkSource is the microphone port. Open requests device access and
// returns a stream of encoded audio; an Open failure is a capability error
// and leaves the recorder state untouched.
type ChunkSource interface {
	Open(ctx context.Context) (io.ReadCloser, error)
	MIMEType() string
}

// Recorder manages one live capture session: device access, buffered
// chunks, a once-per-second elapsed counter, and the finalized clip.
type Recorder struct {
	source     ChunkSource
	previewDir string
	tick       time.Duration

	mu          sync.Mutex
	state       State
	elapsed     int
	buf         bytes.Buffer
	stream      io.ReadCloser
	clip        *models.MediaClip
	previewPath string

	tickerStop chan struct{}
	copyDone   chan struct{}
}

// NewRecorder creates an idle recorder. Finalized clips are mirrored into
// previewDir so the capture can be played back before submission.
func NewRecorder(source ChunkSource, previewDir string) *Recorder {
	return &Recorder{
		source:     source,
		previewDir: previewDir,
		tick:       time.Second,
		state:      StateIdle,
	}
}

// Start requests device access and begins a capture session. Any previously
// buffered audio is discarded. Calling Start while recording fails with
// ErrAlreadyRecording; a device failure reports a capability error and
// leaves the prior state intact.
func (r *Recorder) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == StateRecording {
		return ErrAlreadyRecording
	}

	stream, err := r.source.Open(ctx)
	if err != nil {
		return fmt.Errorf("failed to access recording device: %w", err)
	}

	r.discardCaptureLocked()
	r.stream = stream
	r.state = StateRecording
	r.elapsed = 0
	r.tickerStop = make(chan struct{})
	r.copyDone = make(chan struct{})

	go r.runTicker(r.tickerStop)
	go r.drain(stream, r.copyDone)

	return nil
}

// runTicker advances the elapsed counter once per second until cancelled.
// Every exit transition cancels it so no periodic task is leaked.
func (r *Recorder) runTicker(stop chan struct{}) {
	ticker := time.NewTicker(r.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.mu.Lock()
			if r.state == StateRecording {
				r.elapsed++
			}
			r.mu.Unlock()
		case <-stop:
			return
		}
	}
}

// drain buffers chunks from the device stream until it is closed. A read
// failure mid-stream is a fatal recording abort back to Idle.
func (r *Recorder) drain(stream io.Reader, done chan struct{}) {
	defer close(done)

	chunk := make([]byte, 32*1024)
	for {
		n, err := stream.Read(chunk)
		if n > 0 {
			r.mu.Lock()
			r.buf.Write(chunk[:n])
			r.mu.Unlock()
		}
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, os.ErrClosed) && !errors.Is(err, io.ErrClosedPipe) {
				log.Printf("Recording stream failed, aborting capture: %v", err)
				r.abort()
			}
			return
		}
	}
}

// abort drops the session after a mid-stream device failure
func (r *Recorder) abort() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateRecording {
		return
	}
	r.stopSessionLocked()
	r.buf.Reset()
	r.elapsed = 0
	r.state = StateIdle
}

// Stop finalizes the buffered audio into a single clip, writes the preview
// copy, releases the device, and moves to Captured. Outside the Recording
// state it is a no-op with a warning; in particular a second Stop does not
// reset or further advance the elapsed counter.
func (r *Recorder) Stop() {
	r.mu.Lock()
	if r.state != StateRecording {
		r.mu.Unlock()
		log.Printf("Stop called while not recording; ignoring")
		return
	}

	r.stopSessionLocked()
	done := r.copyDone
	r.mu.Unlock()

	// Wait for the drain goroutine to flush its final chunks
	if done != nil {
		<-done
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	data := make([]byte, r.buf.Len())
	copy(data, r.buf.Bytes())

	r.clip = &models.MediaClip{
		Data:     data,
		MIMEType: r.source.MIMEType(),
		FileName: fmt.Sprintf("interview-recording-%d%s", time.Now().UnixMilli(), extensionFor(r.source.MIMEType())),
	}
	r.state = StateCaptured

	if r.previewDir != "" {
		path := filepath.Join(r.previewDir, r.clip.FileName)
		if err := os.MkdirAll(r.previewDir, 0755); err != nil {
			log.Printf("Failed to create preview directory: %v", err)
		} else if err := os.WriteFile(path, data, 0644); err != nil {
			log.Printf("Failed to write preview file: %v", err)
		} else {
			r.previewPath = path
		}
	}
}

// stopSessionLocked cancels the ticker and releases the device stream.
// Callers must hold the mutex.
func (r *Recorder) stopSessionLocked() {
	if r.tickerStop != nil {
		close(r.tickerStop)
		r.tickerStop = nil
	}
	if r.stream != nil {
		if err := r.stream.Close(); err != nil {
			log.Printf("Failed to close recording stream: %v", err)
		}
		r.stream = nil
	}
}

// Reset discards the captured clip and preview and returns to Idle. It is
// rejected mid-recording; from Idle it is a harmless no-op.
func (r *Recorder) Reset() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == StateRecording {
		return fmt.Errorf("cannot reset while recording")
	}

	r.discardCaptureLocked()
	r.elapsed = 0
	r.state = StateIdle
	return nil
}

// discardCaptureLocked drops buffered audio, the finalized clip, and the
// preview file. Callers must hold the mutex.
func (r *Recorder) discardCaptureLocked() {
	r.buf.Reset()
	r.clip = nil
	if r.previewPath != "" {
		if err := os.Remove(r.previewPath); err != nil && !os.IsNotExist(err) {
			log.Printf("Failed to remove preview file: %v", err)
		}
		r.previewPath = ""
	}
}

// Close tears the recorder down, cancelling any active session
func (r *Recorder) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stopSessionLocked()
	r.state = StateIdle
}

// State returns the current capture state
func (r *Recorder) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Elapsed returns the recorded seconds counted so far
func (r *Recorder) Elapsed() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.elapsed
}

// FormatElapsed renders the elapsed counter as m:ss for display
func (r *Recorder) FormatElapsed() string {
	secs := r.Elapsed()
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

// Clip returns the finalized recording, if one has been captured
func (r *Recorder) Clip() (*models.MediaClip, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateCaptured || r.clip == nil {
		return nil, false
	}
	return r.clip, true
}

// PreviewPath returns the playable preview locator for the captured clip
func (r *Recorder) PreviewPath() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.previewPath
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case "audio/webm":
		return ".webm"
	case "audio/mpeg":
		return ".mp3"
	case "audio/wav", "audio/x-wav":
		return ".wav"
	case "audio/ogg":
		return ".ogg"
	default:
		return ".bin"
	}
}
