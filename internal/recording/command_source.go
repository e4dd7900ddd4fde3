package recording

import (
	"context"
	"fmt"
	"io"
	"os/exec"
)

// CommandSource captures audio by running an external encoder that writes
// the stream to stdout. Closing the returned stream stops the capture.
type CommandSource struct {
	name     string
	args     []string
	mimeType string
}

// NewFFmpegSource captures the default microphone through ffmpeg as an Ogg
// stream. ffmpeg must be on PATH.
func NewFFmpegSource() *CommandSource {
	return &CommandSource{
		name:     "ffmpeg",
		args:     []string{"-hide_banner", "-loglevel", "error", "-f", "pulse", "-i", "default", "-f", "ogg", "-"},
		mimeType: "audio/ogg",
	}
}

// NewCommandSource captures audio through an arbitrary command writing
// encoded media to stdout
func NewCommandSource(mimeType, name string, args ...string) *CommandSource {
	return &CommandSource{
		name:     name,
		args:     args,
		mimeType: mimeType,
	}
}

// MIMEType returns the encoding the command produces
func (s *CommandSource) MIMEType() string {
	return s.mimeType
}

// Open starts the capture process and returns its stdout stream
func (s *CommandSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if _, err := exec.LookPath(s.name); err != nil {
		return nil, fmt.Errorf("capture command %s not available: %w", s.name, err)
	}

	cmd := exec.CommandContext(ctx, s.name, s.args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open capture stream: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start capture: %w", err)
	}

	return &commandStream{ReadCloser: stdout, cmd: cmd}, nil
}

// commandStream ties the stream's lifetime to the capture process
type commandStream struct {
	io.ReadCloser
	cmd *exec.Cmd
}

func (c *commandStream) Close() error {
	err := c.ReadCloser.Close()
	if c.cmd.Process != nil {
		c.cmd.Process.Kill()
	}
	c.cmd.Wait()
	return err
}
