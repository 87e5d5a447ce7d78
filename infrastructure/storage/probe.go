package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

type IProber interface {
	// Duration returns the media length in seconds.
	Duration(ctx context.Context, localPath string) (float64, error)
}

type FFProbe struct {
	timeout time.Duration
}

func NewFFProbe(timeout time.Duration) IProber {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &FFProbe{timeout: timeout}
}

func (p *FFProbe) Duration(ctx context.Context, localPath string) (float64, error) {
	timeout := p.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}
	if timeout <= 0 {
		return 0, context.DeadlineExceeded
	}
	out, err := ffmpeg.ProbeWithTimeout(localPath, timeout, ffmpeg.KwArgs{})
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: %w", localPath, err)
	}
	return parseDuration(out)
}

type probeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

func parseDuration(raw string) (float64, error) {
	var out probeOutput
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return 0, fmt.Errorf("decode ffprobe output: %w", err)
	}
	if out.Format.Duration == "" {
		return 0, nil
	}
	d, err := strconv.ParseFloat(out.Format.Duration, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", out.Format.Duration, err)
	}
	return d, nil
}
