package mediainfo

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

func TestParseFrameRate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want float64
	}{
		{"ntsc rational", "30000/1001", 29.97002997002997},
		{"whole rational", "30/1", 30},
		{"plain number", "25", 25},
		{"zero denominator", "30/0", 0},
		{"zero rate", "0/0", 0},
		{"empty", "", 0},
		{"garbage", "abc/def", 0},
		{"negative", "-30/1", -30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ParseFrameRate(tt.raw); got != tt.want {
				t.Errorf("ParseFrameRate(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestMetadataFromProbe(t *testing.T) {
	t.Parallel()

	out := probeOutput{
		Streams: []probeStream{{
			CodecName:  "h264",
			Width:      640,
			Height:     360,
			NbFrames:   "300",
			RFrameRate: "30/1",
		}},
		Format: probeFormat{FormatName: "mov,mp4,m4a,3gp,3g2,mj2"},
	}

	meta := metadataFromProbe(out)

	if meta.Resolution != "640x360" {
		t.Errorf("Resolution = %q, want 640x360", meta.Resolution)
	}
	if meta.DurationSeconds != 10 {
		t.Errorf("DurationSeconds = %v, want 10", meta.DurationSeconds)
	}
	if meta.FrameRate != 30 {
		t.Errorf("FrameRate = %v, want 30", meta.FrameRate)
	}
	if meta.Format != "mov" {
		t.Errorf("Format = %q, want mov", meta.Format)
	}
}

func TestMetadataFromProbeMissingValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		stream probeStream
	}{
		{"no frame count", probeStream{Width: 640, Height: 360, RFrameRate: "30/1"}},
		{"no frame rate", probeStream{Width: 640, Height: 360, NbFrames: "300"}},
		{"zero frames", probeStream{Width: 640, Height: 360, NbFrames: "0", RFrameRate: "30/1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			meta := metadataFromProbe(probeOutput{Streams: []probeStream{tt.stream}})
			if meta.DurationSeconds != 0 {
				t.Errorf("DurationSeconds = %v, want 0", meta.DurationSeconds)
			}
		})
	}
}

func TestMetadataFromProbeNoDimensions(t *testing.T) {
	t.Parallel()

	meta := metadataFromProbe(probeOutput{Streams: []probeStream{{CodecName: "h264"}}})
	if meta.Resolution != UnknownResolution {
		t.Errorf("Resolution = %q, want %q", meta.Resolution, UnknownResolution)
	}
}

func TestDegraded(t *testing.T) {
	t.Parallel()

	meta := Degraded()
	if meta.Resolution != UnknownResolution {
		t.Errorf("Resolution = %q, want %q", meta.Resolution, UnknownResolution)
	}
	if meta.Format != "Unknown" {
		t.Errorf("Format = %q, want Unknown", meta.Format)
	}
	if meta.DurationSeconds != 0 || meta.FrameRate != 0 {
		t.Error("degraded metadata must zero all numeric fields")
	}
}

func TestExtractUnreadableFile(t *testing.T) {
	t.Parallel()
	if _, err := exec.LookPath("ffprobe"); err != nil {
		t.Skip("ffprobe not available, skipping test")
	}

	path := filepath.Join(t.TempDir(), "not_a_video.mp4")
	if err := os.WriteFile(path, []byte("this is not a video"), 0o644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	meta := NewExtractor().Extract(path)
	if meta.Resolution != UnknownResolution {
		t.Errorf("Resolution = %q, want %q", meta.Resolution, UnknownResolution)
	}
	if meta.DurationSeconds != 0 {
		t.Errorf("DurationSeconds = %v, want 0", meta.DurationSeconds)
	}
}

func TestValidateRejectsNonVideo(t *testing.T) {
	t.Parallel()
	if _, err := exec.LookPath("ffprobe"); err != nil {
		t.Skip("ffprobe not available, skipping test")
	}

	path := filepath.Join(t.TempDir(), "fake.mp4")
	if err := os.WriteFile(path, []byte("plain text"), 0o644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	if NewExtractor().Validate(path) {
		t.Error("Validate accepted a non-video file")
	}
}

func TestFirstFormatName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want string
	}{
		{"mov,mp4,m4a,3gp,3g2,mj2", "mov"},
		{"matroska,webm", "matroska"},
		{"avi", "avi"},
		{"", "Unknown"},
	}

	for _, tt := range tests {
		if got := firstFormatName(tt.raw); got != tt.want {
			t.Errorf("firstFormatName(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}
