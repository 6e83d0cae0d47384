package style

// Spec is a color plus an ordered list of style names, as written in the
// config file.
type Spec struct {
	Color  string   `yaml:"color"`
	Format []string `yaml:"format,omitempty"`
}

// New returns a Spec with only a color.
func New(color string) *Spec {
	return &Spec{Color: color}
}

// Apply decorates text with the spec. A nil spec leaves text untouched.
func (s *Spec) Apply(text string) string {
	if s == nil {
		return text
	}
	return Apply(text, s.Format, s.Color)
}
