package cache

// Keyer generates deterministic cache keys for the build pipeline.
//
// Keys must be stable across processes: two builds of the same project with
// the same options must produce identical keys, so CI workers can share a
// Redis or Mongo backend.
type Keyer interface {
	// ManifestKey generates a key for a serialized manifest snapshot.
	ManifestKey(target, language string, opts ManifestKeyOpts) string

	// SpriteKey generates a key for a rendered sprite sheet.
	SpriteKey(manifestHash, sheet string, opts SpriteKeyOpts) string

	// ConfigKey generates a key for project configuration documents.
	ConfigKey(project, path string) string
}

// ManifestKeyOpts captures the build options that affect manifest contents.
type ManifestKeyOpts struct {
	Mode       string // Build mode (debug, production)
	ConfigHash string // Hash of the target's effective configuration
}

// SpriteKeyOpts captures the options that affect sprite sheet output.
type SpriteKeyOpts struct {
	Format string // Output image format (png, gif, jpg)
}

// DefaultKeyer is the standard key generator.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// ManifestKey generates a key for a serialized manifest snapshot.
func (k *DefaultKeyer) ManifestKey(target, language string, opts ManifestKeyOpts) string {
	return hashKey("manifest", target, language, opts.Mode, opts.ConfigHash)
}

// SpriteKey generates a key for a rendered sprite sheet.
func (k *DefaultKeyer) SpriteKey(manifestHash, sheet string, opts SpriteKeyOpts) string {
	return hashKey("sprite", manifestHash, sheet, opts.Format)
}

// ConfigKey generates a key for project configuration documents.
func (k *DefaultKeyer) ConfigKey(project, path string) string {
	return hashKey("config", project, path)
}
