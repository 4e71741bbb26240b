package filtergraph

import (
	"fmt"
	"slices"
	"strings"
)

// Upload field names.
const (
	FieldFile   = "file"
	FieldAudio1 = "audio1"
	FieldAudio2 = "audio2"
)

// Endpoint binds an HTTP route to an operation.
type Endpoint struct {
	Method      string     `json:"method"`
	Path        string     `json:"path"`
	Operation   Operation  `json:"operation"`
	Format      Format     `json:"format,omitempty"`
	Fields      []string   `json:"fields"`
	Params      []ParamDef `json:"params,omitempty"`
	Prefix      string     `json:"-"`
	Description string     `json:"description"`
}

// String renders the endpoint as it appears in the capability listing.
func (e Endpoint) String() string {
	s := e.Method + " " + e.Path
	if e.Description == "" {
		return s
	}
	s += " - " + e.Description
	if len(e.Params) > 0 || len(e.Fields) > 1 {
		s += " (" + strings.Join(e.argNames(), ", ") + ")"
	}
	return s
}

func (e Endpoint) argNames() []string {
	var names []string
	if len(e.Fields) > 1 {
		names = append(names, e.Fields...)
	}
	for _, p := range e.Params {
		names = append(names, p.Name)
	}
	return names
}

// Filename builds the attachment name served for a result.
func (e Endpoint) Filename(unixMilli int64, out Format) string {
	return fmt.Sprintf("%s-%d%s", e.Prefix, unixMilli, out.Ext())
}

var catalogue = buildCatalogue()

func buildCatalogue() []Endpoint {
	single := []string{FieldFile}
	pair := []string{FieldAudio1, FieldAudio2}

	var eps []Endpoint
	for _, f := range Formats {
		eps = append(eps, Endpoint{
			Method:    "POST",
			Path:      "/convert/audio/to/" + string(f),
			Operation: OpTranscode,
			Format:    f,
			Fields:    single,
			Prefix:    "output",
		})
	}
	for _, f := range []Format{MP3, OGG} {
		eps = append(eps, Endpoint{
			Method:      "POST",
			Path:        "/audio/normalize-" + string(f),
			Operation:   OpNormalizeTranscode,
			Format:      f,
			Fields:      single,
			Params:      Defaults(OpNormalizeTranscode),
			Prefix:      "normalized-" + string(f),
			Description: fmt.Sprintf("Normalize and encode to %s 44100Hz", strings.ToUpper(string(f))),
		})
	}
	for _, f := range []Format{MP3, OGG} {
		eps = append(eps, Endpoint{
			Method:      "POST",
			Path:        "/audio/reverb-normalize-" + string(f),
			Operation:   OpReverbNormalizeTranscode,
			Format:      f,
			Fields:      single,
			Params:      Defaults(OpReverbNormalizeTranscode),
			Prefix:      "reverb-normalized-" + string(f),
			Description: fmt.Sprintf("Reverb, normalize and volume, encoded to %s 256k", strings.ToUpper(string(f))),
		})
	}

	return append(eps,
		Endpoint{
			Method:      "POST",
			Path:        "/audio/mix",
			Operation:   OpMix,
			Fields:      pair,
			Prefix:      "mix",
			Description: "Mix two tracks",
		},
		Endpoint{
			Method:      "POST",
			Path:        "/audio/reverb",
			Operation:   OpReverb,
			Fields:      single,
			Params:      Defaults(OpReverb),
			Prefix:      "reverb",
			Description: "Add reverb",
		},
		Endpoint{
			Method:      "POST",
			Path:        "/audio/compress",
			Operation:   OpCompress,
			Fields:      single,
			Params:      Defaults(OpCompress),
			Prefix:      "compressed",
			Description: "Dynamic range compressor",
		},
		Endpoint{
			Method:      "POST",
			Path:        "/audio/normalize",
			Operation:   OpNormalize,
			Fields:      single,
			Prefix:      "normalized",
			Description: "Loudness normalization",
		},
		Endpoint{
			Method:      "POST",
			Path:        "/audio/fade",
			Operation:   OpFade,
			Fields:      single,
			Params:      Defaults(OpFade),
			Prefix:      "fade",
			Description: "Fade in and out",
		},
		Endpoint{
			Method:      "POST",
			Path:        "/audio/eq",
			Operation:   OpEqualize,
			Fields:      single,
			Params:      Defaults(OpEqualize),
			Prefix:      "eq",
			Description: "Bass and treble equalization",
		},
		Endpoint{
			Method:      "POST",
			Path:        "/audio/crossfade",
			Operation:   OpCrossfade,
			Fields:      pair,
			Params:      Defaults(OpCrossfade),
			Prefix:      "crossfade",
			Description: "Crossfade between two tracks",
		},
		Endpoint{
			Method:      "POST",
			Path:        "/audio/gate",
			Operation:   OpGate,
			Fields:      single,
			Params:      Defaults(OpGate),
			Prefix:      "gate",
			Description: "Remove background noise",
		},
		Endpoint{
			Method:      "POST",
			Path:        "/probe",
			Operation:   OpProbe,
			Fields:      single,
			Description: "File information",
		},
	)
}

// Endpoints returns a deep copy of the HTTP catalogue in listing order.
func Endpoints() []Endpoint {
	out := make([]Endpoint, len(catalogue))
	for i, e := range catalogue {
		out[i] = e.clone()
	}
	return out
}

func (e Endpoint) clone() Endpoint {
	e.Fields = slices.Clone(e.Fields)
	e.Params = slices.Clone(e.Params)
	return e
}

// Lookup finds the endpoint registered at path.
func Lookup(path string) (Endpoint, bool) {
	for _, e := range catalogue {
		if e.Path == path {
			return e.clone(), true
		}
	}
	return Endpoint{}, false
}
