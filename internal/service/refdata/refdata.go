// Package refdata serves the read-only pick lists (technicians, engineers,
// areas, loops and tags) per plant.
package refdata

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

type Plant struct {
	Technicians []string            `yaml:"technicians" json:"technicians"`
	Engineers   []string            `yaml:"engineers" json:"engineers"`
	Areas       []string            `yaml:"areas" json:"areas"`
	Loops       map[string][]string `yaml:"loops" json:"loops"`
}

type file struct {
	Plants map[string]Plant `yaml:"plants"`
}

// Static is reference data loaded once. A plant without lists accepts any value.
type Static struct {
	plants map[string]Plant
}

// Empty returns reference data that accepts everything.
func Empty() *Static {
	return &Static{plants: map[string]Plant{}}
}

// Load reads the YAML file at path. An empty path yields Empty().
func Load(path string) (*Static, error) {
	const op = "service.refdata.Load"

	if path == "" {
		return Empty(), nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s, nil
}

func Parse(b []byte) (*Static, error) {
	var f file
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse reference data: %w", err)
	}

	s := Empty()
	for code, p := range f.Plants {
		s.plants[strings.ToUpper(strings.TrimSpace(code))] = p
	}
	return s, nil
}

func (s *Static) Plant(code string) (Plant, bool) {
	p, ok := s.plants[strings.ToUpper(code)]
	return p, ok
}

// Plants lists configured plant codes in order.
func (s *Static) Plants() []string {
	codes := make([]string, 0, len(s.plants))
	for code := range s.plants {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

func (s *Static) KnownTechnician(plant, name string) bool {
	p, ok := s.Plant(plant)
	if !ok {
		return true
	}
	return contains(p.Technicians, name)
}

func (s *Static) KnownEngineer(plant, name string) bool {
	p, ok := s.Plant(plant)
	if !ok {
		return true
	}
	return contains(p.Engineers, name)
}

func (s *Static) KnownArea(plant, area string) bool {
	p, ok := s.Plant(plant)
	if !ok {
		return true
	}
	return contains(p.Areas, area)
}

// KnownTag checks tag against the loop's tag list. Unlisted loops accept any tag.
func (s *Static) KnownTag(plant, loop, tag string) bool {
	p, ok := s.Plant(plant)
	if !ok || len(p.Loops) == 0 {
		return true
	}
	tags, ok := p.Loops[loop]
	if !ok {
		return true
	}
	return contains(tags, tag)
}

// empty lists are permissive
func contains(list []string, v string) bool {
	if len(list) == 0 {
		return true
	}
	for _, item := range list {
		if strings.EqualFold(item, v) {
			return true
		}
	}
	return false
}
