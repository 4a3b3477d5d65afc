package menu

// Spec is the declarative form of a menu entry used in config files. A spec
// with Separator set, or with the name "|", is a separator.
type Spec struct {
	Name      string   `yaml:"name,omitempty" json:"name,omitempty"`
	Icon      string   `yaml:"icon,omitempty" json:"icon,omitempty"`
	Shortcut  string   `yaml:"shortcut,omitempty" json:"shortcut,omitempty"`
	Link      string   `yaml:"link,omitempty" json:"link,omitempty"`
	Bold      bool     `yaml:"bold,omitempty" json:"bold,omitempty"`
	Disabled  bool     `yaml:"disabled,omitempty" json:"disabled,omitempty"`
	Separator bool     `yaml:"separator,omitempty" json:"separator,omitempty"`
	Launch    []string `yaml:"launch,omitempty" json:"launch,omitempty"`
	Children  []Spec   `yaml:"children,omitempty" json:"children,omitempty"`
}

// IsSeparator reports whether the spec describes a separator.
func (s Spec) IsSeparator() bool {
	return s.Separator || s.Name == "|"
}

// Build converts specs into menu entries.
func Build(specs []Spec) []Entry {
	entries := make([]Entry, 0, len(specs))
	for _, s := range specs {
		if s.IsSeparator() {
			entries = append(entries, Separator{})
			continue
		}
		entries = append(entries, &Item{
			Name:     s.Name,
			Icon:     s.Icon,
			Shortcut: s.Shortcut,
			Link:     s.Link,
			Bold:     s.Bold,
			Disabled: s.Disabled,
			Launch:   append([]string(nil), s.Launch...),
			Children: Build(s.Children),
		})
	}
	return entries
}
