package probe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"os/exec"
	"strconv"
	"strings"

	"github.com/tjanuki/storage-manager/internal/core/port"
)

// FFProbe reads media durations with the ffprobe binary
type FFProbe struct {
	path   string
	logger *slog.Logger
}

// NewFFProbe resolves bin on PATH. A missing binary is not an error,
// every probe then reports an unknown duration.
func NewFFProbe(bin string, logger *slog.Logger) *FFProbe {
	resolved, err := exec.LookPath(bin)
	if err != nil {
		logger.Warn("ffprobe not available, durations will be unknown", "bin", bin)
		resolved = ""
	}
	return &FFProbe{path: resolved, logger: logger}
}

var _ port.DurationProber = (*FFProbe)(nil)

// Probe returns the duration rounded to whole seconds
func (p *FFProbe) Probe(ctx context.Context, path string) (*int, error) {
	if p.path == "" {
		return nil, nil
	}

	cmd := exec.CommandContext(ctx, p.path,
		"-v", "error",
		"-i", path,
		"-print_format", "json",
		"-show_format",
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffprobe %s: %w: %s", path, err, strings.TrimSpace(stderr.String()))
	}
	return parseDuration(stdout.Bytes())
}

// ffprobeOutput is the subset of -show_format we read. Duration is a
// decimal string and is absent for streams without a known length.
type ffprobeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

func parseDuration(raw []byte) (*int, error) {
	var out ffprobeOutput
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode ffprobe output: %w", err)
	}

	value := strings.TrimSpace(out.Format.Duration)
	if value == "" || value == "N/A" {
		return nil, nil
	}
	seconds, err := strconv.ParseFloat(value, 64)
	if err != nil || seconds < 0 {
		return nil, nil
	}
	d := int(math.Round(seconds))
	return &d, nil
}
