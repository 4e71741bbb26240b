// Package verify checks an engine output before it is served: the file must
// be non-empty and its header must decode for the expected container.
package verify

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-audio/wav"
	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"

	"ffaudio/internal/filtergraph"
	apierrors "ffaudio/internal/pkg/errors"
)

// Result describes a decoded output header.
type Result struct {
	Format     filtergraph.Format
	Size       int64
	SampleRate int
	Channels   int
	Duration   time.Duration
}

// File inspects path as format. When wantRate is positive the decoded sample
// rate must equal it. Any failure is reported as an engine error since the
// engine produced the file.
func File(path string, format filtergraph.Format, wantRate int) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, apierrors.Filesystem(err, "verify.open", path)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return Result{}, apierrors.Filesystem(err, "verify.stat", path)
	}
	if st.Size() == 0 {
		return Result{}, apierrors.Engine("verify.size", "engine produced an empty output", nil)
	}

	var res Result
	switch format {
	case filtergraph.WAV:
		res, err = decodeWAV(f)
	case filtergraph.MP3:
		res, err = decodeMP3(f)
	case filtergraph.OGG:
		res, err = decodeOGG(f)
	default:
		return Result{}, apierrors.Newf(apierrors.CodeInternal, "no verifier for format %q", format)
	}
	if err != nil {
		return Result{}, apierrors.Engine("verify."+string(format),
			fmt.Sprintf("engine output is not a valid %s file", format), err)
	}

	res.Format = format
	res.Size = st.Size()

	if wantRate > 0 && res.SampleRate != wantRate {
		return res, apierrors.Engine("verify.rate",
			fmt.Sprintf("engine output sample rate is %d, expected %d", res.SampleRate, wantRate), nil)
	}
	return res, nil
}

func decodeWAV(r io.ReadSeeker) (Result, error) {
	d := wav.NewDecoder(r)
	if !d.IsValidFile() {
		if err := d.Err(); err != nil {
			return Result{}, err
		}
		return Result{}, fmt.Errorf("missing RIFF/WAVE header")
	}
	dur, err := d.Duration()
	if err != nil {
		return Result{}, err
	}
	return Result{
		SampleRate: int(d.SampleRate),
		Channels:   int(d.NumChans),
		Duration:   dur,
	}, nil
}

func decodeMP3(r io.Reader) (Result, error) {
	d, err := gomp3.NewDecoder(r)
	if err != nil {
		return Result{}, err
	}
	res := Result{SampleRate: d.SampleRate(), Channels: 2}
	// go-mp3 always yields 16-bit stereo, 4 bytes per frame.
	if n := d.Length(); n > 0 && res.SampleRate > 0 {
		res.Duration = time.Duration(n/4) * time.Second / time.Duration(res.SampleRate)
	}
	return res, nil
}

func decodeOGG(r io.Reader) (Result, error) {
	d, err := oggvorbis.NewReader(r)
	if err != nil {
		return Result{}, err
	}
	res := Result{SampleRate: d.SampleRate(), Channels: d.Channels()}
	if n := d.Length(); n > 0 && res.SampleRate > 0 {
		res.Duration = time.Duration(n) * time.Second / time.Duration(res.SampleRate)
	}
	return res, nil
}
