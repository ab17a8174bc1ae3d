// Package mediainfo derives duration, resolution, and frame rate from media
// containers by shelling out to ffprobe. Extraction is bounded by a hard
// deadline and degrades to sentinel values instead of failing ingestion.
package mediainfo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"video-catalog/internal/logging"
	"video-catalog/internal/metrics"
	"video-catalog/internal/task"
)

const (
	// extractTimeout bounds a full metadata probe.
	extractTimeout = 15 * time.Second

	// validateTimeout bounds the lightweight codec check.
	validateTimeout = 10 * time.Second
)

// UnknownResolution is the sentinel reported when stream dimensions are
// unavailable.
const UnknownResolution = "Unknown"

// Metadata holds the values derived from a media container. Zero numeric
// fields and UnknownResolution mean the container could not be read.
type Metadata struct {
	DurationSeconds float64
	Width           int
	Height          int
	Resolution      string
	FrameRate       float64
	Format          string
}

// Degraded returns the metadata used when a probe fails or times out.
func Degraded() Metadata {
	return Metadata{Resolution: UnknownResolution, Format: "Unknown"}
}

// Extractor probes media files with ffprobe.
type Extractor struct {
	timeout time.Duration
}

// NewExtractor creates an Extractor with the default deadline.
func NewExtractor() *Extractor {
	return &Extractor{timeout: extractTimeout}
}

// ffprobe JSON output shapes. Only the fields we read are declared.
type probeOutput struct {
	Streams []probeStream `json:"streams"`
	Format  probeFormat   `json:"format"`
}

type probeStream struct {
	CodecName  string `json:"codec_name"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	NbFrames   string `json:"nb_frames"`
	RFrameRate string `json:"r_frame_rate"`
}

type probeFormat struct {
	FormatName string `json:"format_name"`
}

// Extract probes path and returns derived metadata. A probe failure or a
// blown deadline returns Degraded() rather than an error; extraction is
// never fatal to ingestion.
func (e *Extractor) Extract(path string) Metadata {
	start := time.Now()

	ok, meta := task.Run(e.timeout, func(ctx context.Context) (Metadata, error) {
		return probeFile(ctx, path)
	})

	elapsed := time.Since(start)
	metrics.MetadataExtractionDuration.Observe(elapsed.Seconds())

	if !ok {
		if elapsed >= e.timeout {
			metrics.MetadataExtractionsTotal.WithLabelValues("timeout").Inc()
			logging.Warn("Metadata extraction timed out for %s", path)
		} else {
			metrics.MetadataExtractionsTotal.WithLabelValues("error").Inc()
			logging.Debug("Metadata extraction failed for %s", path)
		}
		return Degraded()
	}

	metrics.MetadataExtractionsTotal.WithLabelValues("success").Inc()
	return meta
}

// Validate runs a lightweight container probe to distinguish "genuinely not
// a video" from "video the extractor couldn't fully parse". It checks that
// ffprobe finds a decodable video stream.
func (e *Extractor) Validate(path string) bool {
	ok, valid := task.Run(validateTimeout, func(ctx context.Context) (bool, error) {
		cmd := exec.CommandContext(ctx, "ffprobe",
			"-v", "error",
			"-select_streams", "v:0",
			"-show_entries", "stream=codec_name",
			"-of", "csv=p=0",
			path,
		)

		var stdout bytes.Buffer
		cmd.Stdout = &stdout
		if err := cmd.Run(); err != nil {
			return false, err
		}
		return strings.TrimSpace(stdout.String()) != "", nil
	})

	return ok && valid
}

func probeFile(ctx context.Context, path string) (Metadata, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=codec_name,width,height,nb_frames,r_frame_rate",
		"-show_entries", "format=format_name",
		"-of", "json",
		path,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return Metadata{}, fmt.Errorf("ffprobe failed for %s: %v, stderr: %s", path, err, stderr.String())
	}

	var out probeOutput
	if err := json.Unmarshal(stdout.Bytes(), &out); err != nil {
		return Metadata{}, fmt.Errorf("failed to parse ffprobe output for %s: %w", path, err)
	}
	if len(out.Streams) == 0 {
		return Metadata{}, fmt.Errorf("no video stream in %s", path)
	}

	return metadataFromProbe(out), nil
}

// metadataFromProbe derives Metadata from a parsed probe. Duration is
// frame count / frame rate when both are positive, else zero.
func metadataFromProbe(out probeOutput) Metadata {
	stream := out.Streams[0]

	meta := Metadata{
		Width:      stream.Width,
		Height:     stream.Height,
		Resolution: UnknownResolution,
		Format:     firstFormatName(out.Format.FormatName),
	}

	if stream.Width > 0 && stream.Height > 0 {
		meta.Resolution = fmt.Sprintf("%dx%d", stream.Width, stream.Height)
	}

	meta.FrameRate = ParseFrameRate(stream.RFrameRate)

	frames, err := strconv.ParseInt(stream.NbFrames, 10, 64)
	if err == nil && frames > 0 && meta.FrameRate > 0 {
		meta.DurationSeconds = float64(frames) / meta.FrameRate
	}

	return meta
}

// ParseFrameRate parses ffprobe's rational frame rate notation ("30000/1001")
// into frames per second. Returns 0 for malformed or zero-denominator input.
func ParseFrameRate(raw string) float64 {
	num, den, found := strings.Cut(raw, "/")
	if !found {
		fps, err := strconv.ParseFloat(raw, 64)
		if err != nil || fps < 0 {
			return 0
		}
		return fps
	}

	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0
	}
	return n / d
}

// firstFormatName picks the primary name from ffprobe's comma-separated
// format_name list (e.g., "mov,mp4,m4a,3gp,3g2,mj2").
func firstFormatName(raw string) string {
	if raw == "" {
		return "Unknown"
	}
	name, _, _ := strings.Cut(raw, ",")
	return name
}
