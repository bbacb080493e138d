// Package access enforces role-based access to named datasets, driven by
// declarative policies. Denials are decisions, not errors; callers decide
// whether a denial aborts the operation.
package access

import (
	"sync"

	dErrors "datagov/pkg/domain-errors"
)

// Controller evaluates access policies. Policies are registered once at
// setup and read-only afterwards; the mutex exists for the setup/serve
// boundary, not for policy churn.
type Controller struct {
	mu       sync.RWMutex
	policies map[string]Policy
	order    []string
}

// NewController builds an empty controller.
func NewController() *Controller {
	return &Controller{policies: make(map[string]Policy)}
}

// AddPolicy registers a policy. Duplicate names conflict — silently
// replacing a policy would make the audit export lie about what was active.
func (c *Controller) AddPolicy(policy Policy) error {
	if policy.Name == "" {
		return dErrors.New(dErrors.CodeConfig, "access policy has no name")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.policies[policy.Name]; exists {
		return dErrors.Newf(dErrors.CodeConflict, "access policy %q already registered", policy.Name)
	}
	c.policies[policy.Name] = policy
	c.order = append(c.order, policy.Name)
	return nil
}

// Check reports whether any registered policy grants the role the given
// permission on the dataset.
func (c *Controller) Check(role, dataset, permission string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, name := range c.order {
		if c.policies[name].allows(role, dataset, permission) {
			return true
		}
	}
	return false
}

// Export returns the registered policies in registration order, for the
// audit log.
func (c *Controller) Export() []Policy {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Policy, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.policies[name])
	}
	return out
}
