package catalog

// Asset describes a governed dataset: where it lives, who owns it, how
// sensitive it is, and which regulations apply. Source is a path relative to
// the pipeline's raw data directory. ReadRole names the role the pipeline
// acts as when loading the asset.
type Asset struct {
	Name        string            `yaml:"name" json:"name"`
	Description string            `yaml:"description" json:"description"`
	Owner       string            `yaml:"owner" json:"owner"`
	Sensitivity string            `yaml:"sensitivity" json:"sensitivity"`
	Tags        []string          `yaml:"tags" json:"tags"`
	Source      string            `yaml:"source" json:"source_path"`
	Schema      map[string]string `yaml:"schema" json:"schema"`
	Regulations []string          `yaml:"regulations" json:"regulations"`
	ReadRole    string            `yaml:"read_role" json:"read_role"`
}

// HasColumn reports whether the declared schema contains the column.
func (a Asset) HasColumn(name string) bool {
	_, ok := a.Schema[name]
	return ok
}
