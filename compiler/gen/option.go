package gen

// Option configures a generator.
type Option func(*Generator) error

// WithHeader sets a one-line comment placed at the top of the emitted main
// source file.
func WithHeader(header string) Option {
	return func(g *Generator) error {
		g.header = header
		return nil
	}
}

// WithVersion sets the generated project's version, "0.1.0" by default.
func WithVersion(v string) Option {
	return func(g *Generator) error {
		if v == "" {
			return NewConfigError("Version", v, "empty project version")
		}
		g.version = v
		return nil
	}
}
