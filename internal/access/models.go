package access

// Policy grants a set of permissions on a set of datasets to a set of roles.
// Policies come from the policy document and are evaluated with OR semantics
// across policies: any one policy granting the triple is enough.
type Policy struct {
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description" json:"description"`
	Roles       []string `yaml:"roles" json:"roles"`
	Datasets    []string `yaml:"datasets" json:"datasets"`
	Permissions []string `yaml:"permissions" json:"permissions"`
}

func (p Policy) allows(role, dataset, permission string) bool {
	return contains(p.Roles, role) &&
		contains(p.Datasets, dataset) &&
		contains(p.Permissions, permission)
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
