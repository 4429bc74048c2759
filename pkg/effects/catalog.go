// Package effects holds the static catalog of audio effects and their
// parameter schemas. It is pure: no I/O, no server calls. Both the
// submission client and the API server shape and check payloads with it,
// so a parameter that does not apply to an effect can never travel on
// the wire.
package effects

// Kind identifies an effect preset.
type Kind string

const (
	KindSpeedUp      Kind = "speedup"
	KindSlowedReverb Kind = "slowed"
	KindNightcore    Kind = "nightcore"
	KindAllEffects   Kind = "alleffects"
)

var ValidKinds = []Kind{
	KindSpeedUp, KindSlowedReverb, KindNightcore, KindAllEffects,
}

// Param names a tunable effect parameter. The string value is the wire
// field name.
type Param string

const (
	ParamSpeed        Param = "speed"
	ParamReverbAmount Param = "reverb_amount"
	ParamPitch        Param = "pitch"
	ParamBassGain     Param = "bass_gain"
	ParamFlangerMix   Param = "flanger_mix"
	ParamVolume       Param = "volume"
)

// Range describes the legal values for one parameter.
type Range struct {
	Min     float64
	Max     float64
	Step    float64
	Default float64
}

// Contains reports whether v falls inside the range bounds.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Spec is the schema of one effect kind: which parameters apply and
// their bounds. Volume is universal and not listed in Params.
type Spec struct {
	Kind   Kind
	Label  string
	Params []Param
	Ranges map[Param]Range
}

// Applicable reports whether p is part of this effect's parameter set.
// Volume applies to every kind.
func (s Spec) Applicable(p Param) bool {
	if p == ParamVolume {
		return true
	}
	for _, sp := range s.Params {
		if sp == p {
			return true
		}
	}
	return false
}

// Range returns the bounds for p, including volume.
func (s Spec) Range(p Param) (Range, bool) {
	if p == ParamVolume {
		return VolumeRange, true
	}
	r, ok := s.Ranges[p]
	return r, ok
}

// VolumeRange applies to every effect kind.
var VolumeRange = Range{Min: 0, Max: 1, Step: 0.1, Default: 0.8}

var catalog = map[Kind]Spec{
	KindSpeedUp: {
		Kind:   KindSpeedUp,
		Label:  "Speed Up",
		Params: []Param{ParamSpeed},
		Ranges: map[Param]Range{
			ParamSpeed: {Min: 1.0, Max: 3.0, Step: 0.1, Default: 1.0},
		},
	},
	KindSlowedReverb: {
		Kind:   KindSlowedReverb,
		Label:  "Slowed + Reverb",
		Params: []Param{ParamSpeed, ParamReverbAmount},
		Ranges: map[Param]Range{
			ParamSpeed:        {Min: 0.5, Max: 1.0, Step: 0.05, Default: 1.0},
			ParamReverbAmount: {Min: 0, Max: 100, Step: 1, Default: 0},
		},
	},
	KindNightcore: {
		Kind:   KindNightcore,
		Label:  "Nightcore",
		Params: []Param{ParamSpeed, ParamPitch},
		Ranges: map[Param]Range{
			ParamSpeed: {Min: 1.0, Max: 2.0, Step: 0.1, Default: 1.0},
			ParamPitch: {Min: -2.0, Max: 2.0, Step: 0.1, Default: 1.0},
		},
	},
	KindAllEffects: {
		Kind:   KindAllEffects,
		Label:  "All Effects",
		Params: []Param{ParamSpeed, ParamPitch, ParamReverbAmount, ParamBassGain, ParamFlangerMix},
		Ranges: map[Param]Range{
			ParamSpeed:        {Min: 0.5, Max: 2.0, Step: 0.1, Default: 1.0},
			ParamPitch:        {Min: -2.0, Max: 2.0, Step: 0.1, Default: 1.0},
			ParamReverbAmount: {Min: 0, Max: 100, Step: 1, Default: 0},
			ParamBassGain:     {Min: -20, Max: 20, Step: 1, Default: 0},
			ParamFlangerMix:   {Min: 0, Max: 10, Step: 0.1, Default: 0},
		},
	},
}

// Lookup returns the spec for an effect kind.
func Lookup(k Kind) (Spec, bool) {
	s, ok := catalog[k]
	return s, ok
}

// Kinds returns every catalogued effect kind in presentation order.
func Kinds() []Kind {
	return append([]Kind(nil), ValidKinds...)
}
