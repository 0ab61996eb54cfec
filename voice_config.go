// voice_config.go - YAML-defined preset overlay: operators can add
// named presets, or override a built-in one, without recompiling.

package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// yamlOscConfig mirrors OscConfig with YAML tags; presets expressed in a
// file can't reference Go closures, so Configs is built from this fixed
// list instead of the function field built-ins use.
type yamlOscConfig struct {
	Vol         float32 `yaml:"vol"`
	Mode        string  `yaml:"mode"` // "nat", "sqr", or "sin"
	Speed       float32 `yaml:"speed"`
	LFORate     float32 `yaml:"lfo_rate"`
	LFOAmp      float32 `yaml:"lfo_amplitude"`
	LFOIsVolume bool    `yaml:"lfo_is_volume"`
	Cycle       float64 `yaml:"cycle"`
	Mod         int     `yaml:"mod"`
}

type yamlPreset struct {
	ID         int             `yaml:"id"`
	Name       string          `yaml:"name"`
	Band       string          `yaml:"band"`       // "whistle" or "vocal"
	Validation string          `yaml:"validation"` // "rms" or "amplitude"
	Alpha      float32         `yaml:"alpha"`
	Distortion bool            `yaml:"distortion"`
	Gain       float32         `yaml:"gain"`
	Ungain     float32         `yaml:"ungain"`
	Bypass     bool            `yaml:"bypass"`
	Oscs       []yamlOscConfig `yaml:"oscillators"`
}

type yamlPresetFile struct {
	Presets []yamlPreset `yaml:"presets"`
}

// PresetRegistry holds presets loaded from a YAML overlay file, consulted
// before the built-in table by LookupPreset.
type PresetRegistry struct {
	overlay map[VoiceProgram]VoicePreset
}

// LoadPresetRegistry parses a YAML preset file into a PresetRegistry. A
// malformed mode/band name is a load-time error, not a silent fallback:
// unlike the continuously-polled control files, this file is read once
// at startup under operator control.
func LoadPresetRegistry(path string) (*PresetRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("voice_config: read %s: %w", path, err)
	}

	var file yamlPresetFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("voice_config: parse %s: %w", path, err)
	}

	reg := &PresetRegistry{overlay: make(map[VoiceProgram]VoicePreset, len(file.Presets))}
	for _, yp := range file.Presets {
		preset, err := yp.toVoicePreset()
		if err != nil {
			return nil, fmt.Errorf("voice_config: preset %q: %w", yp.Name, err)
		}
		reg.overlay[preset.ID] = preset
	}
	return reg, nil
}

func (yp yamlPreset) toVoicePreset() (VoicePreset, error) {
	var band PitchBand
	switch yp.Band {
	case "", "whistle":
		band = BandWhistle
	case "vocal":
		band = BandVocal
	default:
		return VoicePreset{}, fmt.Errorf("unknown band %q", yp.Band)
	}

	var validation ValidationStrategy
	switch yp.Validation {
	case "", "rms":
		validation = ValidateRMS
	case "amplitude":
		validation = ValidateAmplitude
	default:
		return VoicePreset{}, fmt.Errorf("unknown validation strategy %q", yp.Validation)
	}

	oscs := make([]OscConfig, len(yp.Oscs))
	for i, o := range yp.Oscs {
		mode, err := parseOscMode(o.Mode)
		if err != nil {
			return VoicePreset{}, err
		}
		if o.LFOAmp > 0 && o.LFORate <= 0 {
			return VoicePreset{}, fmt.Errorf("oscillator %d: lfo_amplitude set without a positive lfo_rate", i)
		}
		oscs[i] = OscConfig{
			Vol: o.Vol, Mode: mode, Speed: o.Speed,
			LFORate: o.LFORate, LFOAmp: o.LFOAmp, LFOIsVolume: o.LFOIsVolume,
			Cycle: o.Cycle, Mod: o.Mod,
		}
	}

	gain, ungain := yp.Gain, yp.Ungain
	if gain == 0 {
		gain = 1
	}
	if ungain == 0 {
		ungain = 1
	}

	return VoicePreset{
		ID: VoiceProgram(yp.ID), Name: yp.Name, Band: band,
		Validation: validation,
		Alpha:      yp.Alpha, Distortion: yp.Distortion,
		Gain: gain, Ungain: ungain, Bypass: yp.Bypass,
		Configs: func(cycles uint64, durationVal, roughPeriod float32) []OscConfig {
			return oscs
		},
	}, nil
}

func parseOscMode(s string) (OscMode, error) {
	switch s {
	case "", "nat", "natural":
		return OscNatural, nil
	case "sqr", "square":
		return OscSquare, nil
	case "sin", "sine":
		return OscSine, nil
	default:
		return 0, fmt.Errorf("unknown oscillator mode %q", s)
	}
}
