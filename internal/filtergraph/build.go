package filtergraph

import (
	"fmt"
	"strconv"

	apierrors "ffaudio/internal/pkg/errors"
)

// Operation names one processing recipe.
type Operation string

const (
	OpTranscode                Operation = "transcode"
	OpNormalize                Operation = "normalize"
	OpNormalizeTranscode       Operation = "normalize-transcode"
	OpReverb                   Operation = "reverb"
	OpReverbNormalizeTranscode Operation = "reverb-normalize-transcode"
	OpCompress                 Operation = "compress"
	OpFade                     Operation = "fade"
	OpEqualize                 Operation = "equalize"
	OpGate                     Operation = "gate"
	OpMix                      Operation = "mix"
	OpCrossfade                Operation = "crossfade"
	OpProbe                    Operation = "probe"
)

// Operations lists every operation.
var Operations = []Operation{
	OpTranscode,
	OpNormalize,
	OpNormalizeTranscode,
	OpReverb,
	OpReverbNormalizeTranscode,
	OpCompress,
	OpFade,
	OpEqualize,
	OpGate,
	OpMix,
	OpCrossfade,
	OpProbe,
}

// masteringSampleRate is forced by the normalize-and-encode recipes.
const masteringSampleRate = 44100

// boostCompressor tames peaks before a volume boost above boostCompressorAbove.
const (
	boostCompressor      = "acompressor=threshold=0.05:ratio=10:attack=100:release=500"
	boostCompressorAbove = 1.2
)

// Encoding holds the output options passed to the engine. Zero values leave
// the choice to the engine.
type Encoding struct {
	SampleRate int    `json:"sample_rate,omitempty"`
	Bitrate    string `json:"bitrate,omitempty"`
	Codec      string `json:"codec,omitempty"`
	Container  Format `json:"container,omitempty"`
}

// Spec is the engine-ready description of one job. Directive order is
// significant: each filter consumes the output of the previous one.
type Spec struct {
	Operation  Operation `json:"operation"`
	Directives []string  `json:"directives"`
	// Complex graphs reference several inputs and go to -filter_complex.
	Complex  bool     `json:"complex,omitempty"`
	Inputs   int      `json:"inputs"`
	Encoding Encoding `json:"encoding"`
}

// Build produces the Spec for op. format is required by transcode and the
// normalize-and-encode recipes; the effect recipes always write wav and accept
// only an empty format or wav. Parameter values are never range-checked.
func Build(op Operation, format Format, params Params) (Spec, error) {
	spec := Spec{Operation: op, Inputs: 1}
	p := resolve(op, params)

	switch op {
	case OpTranscode:
		if err := requireFormat(op, format, MP3, WAV, OGG); err != nil {
			return Spec{}, err
		}
		spec.Encoding.Container = format
		if format == OGG {
			spec.Encoding.Codec = OGG.Codec()
		}

	case OpNormalizeTranscode:
		if err := requireFormat(op, format, MP3, OGG); err != nil {
			return Spec{}, err
		}
		spec.Directives = boostChain(p["volumeBoost"], loudnorm(p["loudness"], p["truePeak"], p["lra"]))
		spec.Encoding = masteringEncoding(format, p["bitrate"])

	case OpReverbNormalizeTranscode:
		if err := requireFormat(op, format, MP3, OGG); err != nil {
			return Spec{}, err
		}
		spec.Directives = append(
			[]string{echo(p["delay"], p["decay"])},
			boostChain(p["volumeBoost"], loudnorm(p["loudness"], p["truePeak"], p["lra"]))...,
		)
		spec.Encoding = masteringEncoding(format, p["bitrate"])

	case OpNormalize:
		spec.Directives = []string{loudnorm("-16", "-1.5", "11")}

	case OpReverb:
		spec.Directives = []string{echo(p["delay"], p["decay"])}

	case OpCompress:
		spec.Directives = []string{fmt.Sprintf("acompressor=threshold=%s:ratio=%s:attack=%s:release=%s",
			p["threshold"], p["ratio"], p["attack"], p["release"])}

	case OpFade:
		spec.Directives = []string{
			"afade=t=in:d=" + p["duration"],
			"afade=t=out:d=" + p["duration"],
		}

	case OpEqualize:
		spec.Directives = []string{
			"bass=g=" + p["bass"],
			"treble=g=" + p["treble"],
		}

	case OpGate:
		spec.Directives = []string{fmt.Sprintf("agate=threshold=%s:ratio=2:attack=20:release=1000", p["threshold"])}

	case OpMix:
		spec.Inputs = 2
		spec.Complex = true
		spec.Directives = []string{"amix=inputs=2:duration=longest"}

	case OpCrossfade:
		spec.Inputs = 2
		spec.Complex = true
		spec.Directives = []string{"[0][1]acrossfade=d=" + p["duration"]}

	case OpProbe:
		return spec, nil

	default:
		return Spec{}, apierrors.Validationf("unknown operation %q", op).WithField("operation", string(op))
	}

	if isEffect(op) {
		if err := requireFormat(op, orWAV(format), WAV); err != nil {
			return Spec{}, err
		}
		spec.Encoding.Container = WAV
	}

	return spec, nil
}

// OutputFormat is the container a Spec writes.
func (s Spec) OutputFormat() Format {
	return s.Encoding.Container
}

func isEffect(op Operation) bool {
	switch op {
	case OpNormalize, OpReverb, OpCompress, OpFade, OpEqualize, OpGate, OpMix, OpCrossfade:
		return true
	}
	return false
}

func orWAV(f Format) Format {
	if f == "" {
		return WAV
	}
	return f
}

func requireFormat(op Operation, f Format, allowed ...Format) error {
	for _, a := range allowed {
		if f == a {
			return nil
		}
	}
	return apierrors.Validationf("operation %s does not support format %q", op, f).
		WithField("operation", string(op)).
		WithField("format", string(f))
}

func masteringEncoding(format Format, bitrate string) Encoding {
	return Encoding{
		SampleRate: masteringSampleRate,
		Bitrate:    bitrate,
		Codec:      format.Codec(),
		Container:  format,
	}
}

func loudnorm(i, tp, lra string) string {
	return fmt.Sprintf("loudnorm=I=%s:TP=%s:LRA=%s", i, tp, lra)
}

// echo keeps the in/out gains fixed and substitutes delay (ms) and decay.
func echo(delay, decay string) string {
	return fmt.Sprintf("aecho=0.8:0.9:%s:%s", delay, decay)
}

// boostChain wraps the loudness directive with the optional compressor in
// front and the optional volume trim behind it. A boost that is not a number
// skips the compressor and is still emitted as volume so the engine rejects it.
func boostChain(boost, loudness string) []string {
	out := make([]string, 0, 3)

	v, err := strconv.ParseFloat(boost, 64)
	numeric := err == nil

	if numeric && v > boostCompressorAbove {
		out = append(out, boostCompressor)
	}
	out = append(out, loudness)
	if !numeric || v != 1.0 {
		out = append(out, "volume="+boost)
	}
	return out
}
