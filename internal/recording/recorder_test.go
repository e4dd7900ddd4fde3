package recording

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// pipeSource is a fake microphone backed by an in-memory pipe
type pipeSource struct {
	openErr error
	writer  *io.PipeWriter
}

func (p *pipeSource) Open(_ context.Context) (io.ReadCloser, error) {
	if p.openErr != nil {
		return nil, p.openErr
	}
	r, w := io.Pipe()
	p.writer = w
	return r, nil
}

func (p *pipeSource) MIMEType() string {
	return "audio/webm"
}

// failingStream delivers one chunk then fails mid-stream
type failingStream struct {
	delivered bool
}

func (f *failingStream) Read(b []byte) (int, error) {
	if !f.delivered {
		f.delivered = true
		return copy(b, []byte("partial")), nil
	}
	return 0, errors.New("device disconnected")
}

func (f *failingStream) Close() error { return nil }

func waitForState(t *testing.T, r *Recorder, want State) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if r.State() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("Timed out waiting for state %s, still %s", want, r.State())
}

func TestStart_TransitionsToRecording(t *testing.T) {
	src := &pipeSource{}
	r := NewRecorder(src, t.TempDir())
	defer r.Close()

	if r.State() != StateIdle {
		t.Fatalf("Expected initial state idle, got %s", r.State())
	}

	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	if r.State() != StateRecording {
		t.Errorf("Expected state recording, got %s", r.State())
	}
}

func TestStart_SecondCallRejected(t *testing.T) {
	src := &pipeSource{}
	r := NewRecorder(src, t.TempDir())
	defer r.Close()

	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	if err := r.Start(context.Background()); !errors.Is(err, ErrAlreadyRecording) {
		t.Errorf("Expected ErrAlreadyRecording, got: %v", err)
	}

	if r.State() != StateRecording {
		t.Errorf("Expected state to remain recording, got %s", r.State())
	}
}

func TestStart_DeviceDenied(t *testing.T) {
	src := &pipeSource{openErr: errors.New("permission denied")}
	r := NewRecorder(src, t.TempDir())

	err := r.Start(context.Background())
	if err == nil {
		t.Fatal("Expected capability error, got nil")
	}

	if r.State() != StateIdle {
		t.Errorf("Expected state to stay idle after denial, got %s", r.State())
	}

	// Recoverable: a later Start with a working device succeeds
	src.openErr = nil
	if err := r.Start(context.Background()); err != nil {
		t.Errorf("Expected retry after denial to succeed, got: %v", err)
	}
	r.Close()
}

func TestStopFinalizesClip(t *testing.T) {
	previewDir := t.TempDir()
	src := &pipeSource{}
	r := NewRecorder(src, previewDir)
	defer r.Close()

	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	payload := []byte("chunk-one chunk-two chunk-three")
	if _, err := src.writer.Write(payload); err != nil {
		t.Fatalf("Failed to write audio chunks: %v", err)
	}
	src.writer.Close()

	r.Stop()

	if r.State() != StateCaptured {
		t.Fatalf("Expected state captured, got %s", r.State())
	}

	clip, ok := r.Clip()
	if !ok {
		t.Fatal("Expected a finalized clip")
	}
	if string(clip.Data) != string(payload) {
		t.Errorf("Clip data mismatch: got %q, want %q", clip.Data, payload)
	}
	if clip.MIMEType != "audio/webm" {
		t.Errorf("Expected MIME type audio/webm, got %s", clip.MIMEType)
	}
	if filepath.Ext(clip.FileName) != ".webm" {
		t.Errorf("Expected .webm file name, got %s", clip.FileName)
	}

	preview := r.PreviewPath()
	if preview == "" {
		t.Fatal("Expected a preview locator")
	}
	data, err := os.ReadFile(preview)
	if err != nil {
		t.Fatalf("Failed to read preview file: %v", err)
	}
	if string(data) != string(payload) {
		t.Errorf("Preview contents mismatch: got %q", data)
	}
}

func TestStop_NoOpWhenNotRecording(t *testing.T) {
	r := NewRecorder(&pipeSource{}, t.TempDir())

	r.Stop() // must not panic or change state

	if r.State() != StateIdle {
		t.Errorf("Expected state idle after stray Stop, got %s", r.State())
	}
}

func TestStop_Idempotent(t *testing.T) {
	src := &pipeSource{}
	r := NewRecorder(src, t.TempDir())
	r.tick = 10 * time.Millisecond
	defer r.Close()

	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	time.Sleep(50 * time.Millisecond)
	src.writer.Close()
	r.Stop()

	elapsed := r.Elapsed()
	if elapsed == 0 {
		t.Error("Expected elapsed counter to have advanced while recording")
	}

	// Counter must freeze after stop
	time.Sleep(50 * time.Millisecond)
	if r.Elapsed() != elapsed {
		t.Errorf("Elapsed advanced after stop: was %d, now %d", elapsed, r.Elapsed())
	}

	// A second Stop neither resets nor advances it
	r.Stop()
	if r.Elapsed() != elapsed {
		t.Errorf("Second Stop mutated elapsed: was %d, now %d", elapsed, r.Elapsed())
	}
	if r.State() != StateCaptured {
		t.Errorf("Expected state to remain captured, got %s", r.State())
	}
}

func TestReset_DiscardsCapture(t *testing.T) {
	src := &pipeSource{}
	r := NewRecorder(src, t.TempDir())
	r.tick = 10 * time.Millisecond
	defer r.Close()

	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	src.writer.Write([]byte("audio"))
	src.writer.Close()
	r.Stop()

	preview := r.PreviewPath()

	if err := r.Reset(); err != nil {
		t.Fatalf("Reset() failed: %v", err)
	}

	if r.State() != StateIdle {
		t.Errorf("Expected state idle after reset, got %s", r.State())
	}
	if r.Elapsed() != 0 {
		t.Errorf("Expected elapsed 0 after reset, got %d", r.Elapsed())
	}
	if _, ok := r.Clip(); ok {
		t.Error("Expected clip to be discarded after reset")
	}
	if _, err := os.Stat(preview); !os.IsNotExist(err) {
		t.Errorf("Expected preview file to be removed, stat err: %v", err)
	}
}

func TestReset_RejectedWhileRecording(t *testing.T) {
	src := &pipeSource{}
	r := NewRecorder(src, t.TempDir())
	defer r.Close()

	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	if err := r.Reset(); err == nil {
		t.Error("Expected Reset to fail while recording")
	}
}

func TestMidStreamFailureAbortsToIdle(t *testing.T) {
	r := NewRecorder(streamSource{&failingStream{}}, t.TempDir())

	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	waitForState(t, r, StateIdle)

	if _, ok := r.Clip(); ok {
		t.Error("Expected no clip after aborted capture")
	}
}

// streamSource hands out a pre-built stream
type streamSource struct {
	stream io.ReadCloser
}

func (s streamSource) Open(_ context.Context) (io.ReadCloser, error) { return s.stream, nil }
func (s streamSource) MIMEType() string                              { return "audio/webm" }
