package shader

// ShaderBuilderOption is a functional option for configuring a Shader before its source is parsed.
type ShaderBuilderOption func(*shader)

// WithInclude registers a WGSL snippet that the source can splice in with //@blocky:include <name>.
//
// Parameters:
//   - name: the include name
//   - source: the WGSL snippet
//
// Returns:
//   - ShaderBuilderOption: a function that registers the include
func WithInclude(name, source string) ShaderBuilderOption {
	return func(s *shader) {
		s.includes[name] = source
	}
}
