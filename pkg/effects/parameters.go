package effects

import "fmt"

// Values carries raw parameter values, typically everything the caller's
// controls currently hold. Build strips the entries that do not apply to
// the chosen effect.
type Values map[Param]float64

// Parameters is the processing submission payload. Pointer fields are
// present only when the parameter applies to EffectType; volume always
// travels.
type Parameters struct {
	EffectType   Kind     `json:"effect_type" validate:"required"`
	Speed        *float64 `json:"speed,omitempty"`
	ReverbAmount *float64 `json:"reverb_amount,omitempty"`
	Pitch        *float64 `json:"pitch,omitempty"`
	BassGain     *float64 `json:"bass_gain,omitempty"`
	FlangerMix   *float64 `json:"flanger_mix,omitempty"`
	Volume       float64  `json:"volume"`
}

// Build produces the payload for kind from raw control values. Entries in
// raw that do not apply to kind are dropped; applicable parameters missing
// from raw take their catalog default. Out-of-range values are rejected.
func Build(kind Kind, raw Values) (*Parameters, error) {
	spec, ok := Lookup(kind)
	if !ok {
		return nil, fmt.Errorf("unknown effect kind %q", kind)
	}

	p := &Parameters{EffectType: kind}

	for _, name := range spec.Params {
		r := spec.Ranges[name]
		v, present := raw[name]
		if !present {
			v = r.Default
		}
		if !r.Contains(v) {
			return nil, fmt.Errorf("%s out of range: %g not in [%g, %g]", name, v, r.Min, r.Max)
		}
		p.set(name, v)
	}

	vol, present := raw[ParamVolume]
	if !present {
		vol = VolumeRange.Default
	}
	if !VolumeRange.Contains(vol) {
		return nil, fmt.Errorf("volume out of range: %g not in [%g, %g]", vol, VolumeRange.Min, VolumeRange.Max)
	}
	p.Volume = vol

	return p, nil
}

// Validate checks that a payload has exactly the shape the catalog allows
// for its effect kind: every applicable parameter set and in range, every
// inapplicable parameter absent. The server runs this on inbound requests.
func (p *Parameters) Validate() error {
	spec, ok := Lookup(p.EffectType)
	if !ok {
		return fmt.Errorf("unknown effect kind %q", p.EffectType)
	}

	for name, field := range p.fields() {
		r, applicable := spec.Ranges[name]
		switch {
		case applicable && field == nil:
			return fmt.Errorf("%s is required for effect %q", name, p.EffectType)
		case !applicable && field != nil:
			return fmt.Errorf("%s does not apply to effect %q", name, p.EffectType)
		case applicable && !r.Contains(*field):
			return fmt.Errorf("%s out of range: %g not in [%g, %g]", name, *field, r.Min, r.Max)
		}
	}

	if !VolumeRange.Contains(p.Volume) {
		return fmt.Errorf("volume out of range: %g not in [%g, %g]", p.Volume, VolumeRange.Min, VolumeRange.Max)
	}
	return nil
}

// Value returns the current value of an applicable parameter, or false
// when the parameter is not part of the payload.
func (p *Parameters) Value(name Param) (float64, bool) {
	if name == ParamVolume {
		return p.Volume, true
	}
	if f, ok := p.fields()[name]; ok && f != nil {
		return *f, true
	}
	return 0, false
}

// Values returns the applicable parameters as a raw map, volume
// excluded.
func (p *Parameters) Values() Values {
	out := Values{}
	for name, f := range p.fields() {
		if f != nil {
			out[name] = *f
		}
	}
	return out
}

func (p *Parameters) fields() map[Param]*float64 {
	return map[Param]*float64{
		ParamSpeed:        p.Speed,
		ParamReverbAmount: p.ReverbAmount,
		ParamPitch:        p.Pitch,
		ParamBassGain:     p.BassGain,
		ParamFlangerMix:   p.FlangerMix,
	}
}

func (p *Parameters) set(name Param, v float64) {
	val := v
	switch name {
	case ParamSpeed:
		p.Speed = &val
	case ParamReverbAmount:
		p.ReverbAmount = &val
	case ParamPitch:
		p.Pitch = &val
	case ParamBassGain:
		p.BassGain = &val
	case ParamFlangerMix:
		p.FlangerMix = &val
	}
}
