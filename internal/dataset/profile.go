package dataset

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed data/profiles.yaml
var profilesYAML []byte

// Known profile names
const (
	ProfileBase         = "base"
	ProfileBilingual    = "bilingual"
	ProfileCompensatory = "compensatory"
)

// Profile describes where a dataset keeps each attribute.
type Profile struct {
	Name       string            `yaml:"-"`
	CodeColumn string            `yaml:"code_column"`
	NameColumn string            `yaml:"name_column"`
	Columns    map[string]string `yaml:"columns"`
	Stages     map[string]string `yaml:"stages"` // stage key -> column
}

// Column returns the header mapped to a logical attribute.
func (p Profile) Column(attr string) string {
	return p.Columns[attr]
}

// LoadProfiles parses the embedded profile definitions.
func LoadProfiles() (map[string]Profile, error) {
	profiles := make(map[string]Profile)
	if err := yaml.Unmarshal(profilesYAML, &profiles); err != nil {
		return nil, fmt.Errorf("parse dataset profiles: %w", err)
	}
	for name, p := range profiles {
		if p.CodeColumn == "" {
			return nil, fmt.Errorf("profile %q has no code column", name)
		}
		p.Name = name
		profiles[name] = p
	}
	return profiles, nil
}

// MustProfile returns the named embedded profile or panics.
func MustProfile(name string) Profile {
	profiles, err := LoadProfiles()
	if err != nil {
		panic(err)
	}
	p, ok := profiles[name]
	if !ok {
		panic(fmt.Sprintf("unknown dataset profile %q", name))
	}
	return p
}
