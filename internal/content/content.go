// Package content supplies the portfolio's static records: education,
// skills, experience and contact channels.
package content

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalidContent is wrapped by every Validate failure.
var ErrInvalidContent = errors.New("invalid content")

// Education is one schooling entry.
type Education struct {
	Year        string `yaml:"year"`
	Institution string `yaml:"institution"`
	Degree      string `yaml:"degree"`
}

// Skill pairs a name with a proficiency level from 0 to 100.
type Skill struct {
	Name  string `yaml:"name"`
	Level int    `yaml:"level"`
}

// Experience is one job entry.
type Experience struct {
	Year        string `yaml:"year"`
	Company     string `yaml:"company"`
	Role        string `yaml:"role"`
	Description string `yaml:"description"`
}

// Contact is one way to reach the owner.
type Contact struct {
	Label string `yaml:"label"`
	Value string `yaml:"value"`
	Link  string `yaml:"link"`
}

// Profile is everything the page shows in the foreground.
type Profile struct {
	Name       string       `yaml:"name"`
	Title      string       `yaml:"title"`
	Tagline    string       `yaml:"tagline"`
	Education  []Education  `yaml:"education"`
	Skills     []Skill      `yaml:"skills"`
	Experience []Experience `yaml:"experience"`
	Contacts   []Contact    `yaml:"contacts"`
}

// Default returns the built-in profile.
func Default() *Profile {
	return &Profile{
		Name:    "Alex Morgan",
		Title:   "Creative Developer",
		Tagline: "Building interactive experiences at the edge of design and code.",
		Education: []Education{
			{Year: "2018 - 2022", Institution: "State University", Degree: "B.Sc. Computer Science"},
			{Year: "2022 - 2024", Institution: "Institute of Design", Degree: "M.A. Interaction Design"},
		},
		Skills: []Skill{
			{Name: "Go", Level: 90},
			{Name: "TypeScript", Level: 85},
			{Name: "WebGL / 3D", Level: 75},
			{Name: "Motion Design", Level: 80},
			{Name: "UI Engineering", Level: 88},
		},
		Experience: []Experience{
			{
				Year:        "2024 - Present",
				Company:     "Northwind Studio",
				Role:        "Senior Frontend Engineer",
				Description: "Leads the interactive web team and owns the real-time rendering toolkit.",
			},
			{
				Year:        "2022 - 2024",
				Company:     "Blue Fern Labs",
				Role:        "Creative Technologist",
				Description: "Prototyped installations and product launches with generative visuals.",
			},
			{
				Year:        "2020 - 2022",
				Company:     "Freelance",
				Role:        "Web Developer",
				Description: "Shipped portfolio and marketing sites for small studios.",
			},
		},
		Contacts: []Contact{
			{Label: "Email", Value: "alex@example.com", Link: "mailto:alex@example.com"},
			{Label: "GitHub", Value: "github.com/alexmorgan", Link: "https://github.com/alexmorgan"},
			{Label: "LinkedIn", Value: "in/alexmorgan", Link: "https://linkedin.com/in/alexmorgan"},
		},
	}
}

// Load reads a YAML profile. Sections missing from the file keep their
// defaults.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read content: %w", err)
	}

	p := Default()
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("failed to parse content: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks the fields the page needs to lay itself out.
func (p *Profile) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidContent)
	}
	for _, s := range p.Skills {
		if s.Name == "" {
			return fmt.Errorf("%w: skill without a name", ErrInvalidContent)
		}
		if s.Level < 0 || s.Level > 100 {
			return fmt.Errorf("%w: skill %q level %d outside 0-100", ErrInvalidContent, s.Name, s.Level)
		}
	}
	for _, c := range p.Contacts {
		if c.Label == "" || c.Value == "" {
			return fmt.Errorf("%w: contact needs a label and a value", ErrInvalidContent)
		}
	}
	return nil
}
