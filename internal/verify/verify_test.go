package verify

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"ffaudio/internal/filtergraph"
	apierrors "ffaudio/internal/pkg/errors"
)

func writeWAV(t *testing.T, sampleRate, channels, frames int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "out.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, 16, channels, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           make([]int, frames*channels),
		SourceBitDepth: 16,
	}
	for i := range buf.Data {
		buf.Data[i] = (i % 64) * 256
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("close encoder: %v", err)
	}
	return path
}

func writeRaw(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestFileWAV(t *testing.T) {
	path := writeWAV(t, 44100, 2, 44100)

	res, err := File(path, filtergraph.WAV, 44100)
	if err != nil {
		t.Fatalf("File() error = %v", err)
	}
	if res.SampleRate != 44100 || res.Channels != 2 {
		t.Errorf("unexpected header %+v", res)
	}
	if res.Duration < 990*time.Millisecond || res.Duration > 1010*time.Millisecond {
		t.Errorf("Duration = %s, want about 1s", res.Duration)
	}
	if res.Size == 0 {
		t.Error("Size not reported")
	}
}

// silentMP3 builds n silent MPEG-1 Layer III frames: 128 kbit/s, 44100 Hz,
// stereo, no padding, so every frame is 417 bytes.
func silentMP3(n int) []byte {
	const frameSize = 417
	out := make([]byte, 0, n*frameSize)
	for i := 0; i < n; i++ {
		frame := make([]byte, frameSize)
		copy(frame, []byte{0xFF, 0xFB, 0x90, 0x00})
		out = append(out, frame...)
	}
	return out
}

func TestFileMP3(t *testing.T) {
	path := writeRaw(t, "out.mp3", silentMP3(20))

	res, err := File(path, filtergraph.MP3, 44100)
	if err != nil {
		t.Fatalf("File() error = %v", err)
	}
	if res.Format != filtergraph.MP3 || res.SampleRate != 44100 || res.Channels != 2 {
		t.Errorf("unexpected header %+v", res)
	}
	if res.Size != 20*417 {
		t.Errorf("Size = %d, want %d", res.Size, 20*417)
	}

	if _, err := File(path, filtergraph.MP3, 48000); !apierrors.IsEngine(err) {
		t.Errorf("expected engine error for a 48000 Hz requirement, got %v", err)
	}
}

func TestFileOGG(t *testing.T) {
	path := filepath.Join("testdata", "tone.ogg")

	res, err := File(path, filtergraph.OGG, 44100)
	if err != nil {
		t.Fatalf("File() error = %v", err)
	}
	if res.Format != filtergraph.OGG || res.SampleRate != 44100 || res.Channels != 1 {
		t.Errorf("unexpected header %+v", res)
	}
	if res.Size == 0 {
		t.Error("Size not reported")
	}

	if _, err := File(path, filtergraph.OGG, 48000); !apierrors.IsEngine(err) {
		t.Errorf("expected engine error for a 48000 Hz requirement, got %v", err)
	}
}

func TestFileSampleRateMismatch(t *testing.T) {
	path := writeWAV(t, 22050, 1, 100)

	_, err := File(path, filtergraph.WAV, 44100)
	if !apierrors.IsEngine(err) {
		t.Errorf("expected engine error, got %v", err)
	}

	if _, err := File(path, filtergraph.WAV, 0); err != nil {
		t.Errorf("no rate requirement should pass, got %v", err)
	}
}

func TestFileRejects(t *testing.T) {
	garbage := []byte("this is definitely not an audio container, just some text bytes")

	tests := []struct {
		name   string
		path   func(t *testing.T) string
		format filtergraph.Format
		code   apierrors.Code
	}{
		{"empty output", func(t *testing.T) string { return writeRaw(t, "empty.wav", nil) }, filtergraph.WAV, apierrors.CodeEngine},
		{"garbage wav", func(t *testing.T) string { return writeRaw(t, "g.wav", garbage) }, filtergraph.WAV, apierrors.CodeEngine},
		{"garbage mp3", func(t *testing.T) string { return writeRaw(t, "g.mp3", garbage) }, filtergraph.MP3, apierrors.CodeEngine},
		{"garbage ogg", func(t *testing.T) string { return writeRaw(t, "g.ogg", garbage) }, filtergraph.OGG, apierrors.CodeEngine},
		{"missing file", func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.wav") }, filtergraph.WAV, apierrors.CodeFilesystem},
		{"wav checked as ogg", func(t *testing.T) string { return writeWAV(t, 44100, 1, 10) }, filtergraph.OGG, apierrors.CodeEngine},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := File(tt.path(t), tt.format, 0)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := apierrors.GetCode(err); got != tt.code {
				t.Errorf("code = %s, want %s (%v)", got, tt.code, err)
			}
		})
	}
}
