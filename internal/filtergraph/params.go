package filtergraph

import "strings"

// Params holds caller values exactly as supplied. An absent key and a blank
// value both mean "use the operation default".
type Params map[string]string

// Get returns the trimmed value of key, or def when it is absent or blank.
func (p Params) Get(key, def string) string {
	if p == nil {
		return def
	}
	v := strings.TrimSpace(p[key])
	if v == "" {
		return def
	}
	return v
}

// ParamDef is one accepted parameter and its default literal.
type ParamDef struct {
	Name    string `json:"name"`
	Default string `json:"default"`
}

var (
	normalizeTranscodeParams = []ParamDef{
		{"loudness", "-16"},
		{"truePeak", "-1.5"},
		{"lra", "11"},
		{"volumeBoost", "1.0"},
		{"bitrate", "192k"},
	}
	reverbNormalizeParams = []ParamDef{
		{"decay", "0.5"},
		{"delay", "50"},
		{"loudness", "-13"},
		{"truePeak", "-0.5"},
		{"lra", "5"},
		{"volumeBoost", "3"},
		{"bitrate", "256k"},
	}
	reverbParams = []ParamDef{
		{"decay", "0.5"},
		{"delay", "50"},
	}
	compressParams = []ParamDef{
		{"threshold", "0.089"},
		{"ratio", "9"},
		{"attack", "200"},
		{"release", "1000"},
	}
	fadeParams      = []ParamDef{{"duration", "3"}}
	equalizeParams  = []ParamDef{{"bass", "0"}, {"treble", "0"}}
	gateParams      = []ParamDef{{"threshold", "0.001"}}
	crossfadeParams = []ParamDef{{"duration", "3"}}
)

var operationParams = map[Operation][]ParamDef{
	OpNormalizeTranscode:       normalizeTranscodeParams,
	OpReverbNormalizeTranscode: reverbNormalizeParams,
	OpReverb:                   reverbParams,
	OpCompress:                 compressParams,
	OpFade:                     fadeParams,
	OpEqualize:                 equalizeParams,
	OpGate:                     gateParams,
	OpCrossfade:                crossfadeParams,
}

// Defaults returns the parameters op accepts, in declaration order.
func Defaults(op Operation) []ParamDef {
	defs := operationParams[op]
	out := make([]ParamDef, len(defs))
	copy(out, defs)
	return out
}

// resolve overlays p on the defaults of op. Keys op does not accept are dropped.
func resolve(op Operation, p Params) map[string]string {
	defs := operationParams[op]
	out := make(map[string]string, len(defs))
	for _, d := range defs {
		out[d.Name] = p.Get(d.Name, d.Default)
	}
	return out
}
