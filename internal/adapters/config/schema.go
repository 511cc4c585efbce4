package config

// Manifest represents the structure of the ngl-env.yaml file.
type Manifest struct {
	ExternalDir  string                    `yaml:"externalDir"`
	Dependencies map[string]*DependencyDTO `yaml:"dependencies"`
}

// DependencyDTO represents a dependency definition in the manifest.
type DependencyDTO struct {
	Version string `yaml:"version"`
	URL     string `yaml:"url"`
	DstFile string `yaml:"dstFile"`
	SHA256  string `yaml:"sha256"`
	Kind    string `yaml:"kind"`
	Branch  string `yaml:"branch"`
}
