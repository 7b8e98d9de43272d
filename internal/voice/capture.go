package voice

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultRecordSeconds is the capture window applied when the configuration
// leaves it unset.
const DefaultRecordSeconds = 15

// secondsPlaceholder in a configured recorder command is replaced with the
// capture duration.
const secondsPlaceholder = "{seconds}"

// Recorder captures a fixed wall-clock window of microphone audio by running
// an external recorder command that writes 16 kHz mono PCM WAV to stdout.
// There is no device handling in-process; a missing recorder simply disables
// voice mode.
type Recorder struct {
	command []string
	seconds int
	logger  *zap.Logger
}

// NewRecorder creates a recorder. An empty command falls back to arecord.
func NewRecorder(command []string, seconds int, logger *zap.Logger) *Recorder {
	if seconds <= 0 {
		seconds = DefaultRecordSeconds
	}
	if len(command) == 0 {
		command = []string{
			"arecord", "-q",
			"-f", "S16_LE",
			"-r", strconv.Itoa(captureSampleRate),
			"-c", "1",
			"-d", secondsPlaceholder,
			"-t", "wav",
			"-",
		}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{command: command, seconds: seconds, logger: logger}
}

// Seconds returns the configured capture window.
func (r *Recorder) Seconds() int {
	return r.seconds
}

// Capture records for the fixed window and returns the WAV bytes.
func (r *Recorder) Capture(ctx context.Context) ([]byte, error) {
	args := make([]string, 0, len(r.command))
	for _, arg := range r.command {
		args = append(args, strings.ReplaceAll(arg, secondsPlaceholder, strconv.Itoa(r.seconds)))
	}

	// Give the recorder a little slack beyond the capture window before
	// the context kills it.
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.seconds+5)*time.Second)
	defer cancel()

	r.logger.Debug("capturing audio",
		zap.Strings("command", args),
		zap.Int("seconds", r.seconds),
	)

	var stdout bytes.Buffer
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Stdout = &stdout

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("recorder %q: %w", args[0], err)
	}

	if stdout.Len() == 0 {
		return nil, fmt.Errorf("recorder %q produced no audio", args[0])
	}

	return stdout.Bytes(), nil
}

// Available reports whether the recorder binary can be found.
func (r *Recorder) Available() bool {
	_, err := exec.LookPath(r.command[0])
	return err == nil
}
