package config

import "sort"

// Preset is a named view orientation.
type Preset struct {
	Description string
	Rotate      RotationConfig
}

var Presets = map[string]*Preset{
	"front": {
		Description: "look down the x axis",
	},
	"side": {
		Description: "look down the y axis",
		Rotate:      RotationConfig{Z: 90},
	},
	"top": {
		Description: "look down the z axis",
		Rotate:      RotationConfig{Y: 90},
	},
	"iso": {
		Description: "oblique view showing three faces",
		Rotate:      RotationConfig{Y: 45, Z: 30},
	},
}

func GetPreset(name string) *Preset {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	return p
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
