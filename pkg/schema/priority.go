package schema

import (
	"strings"

	"github.com/matzehuels/ldgraph/pkg/graph"
)

// Role is an entity role that can represent the site.
type Role string

// Identity roles.
const (
	RolePerson       Role = "person"
	RoleOrganisation Role = "organisation"
	RolePublisher    Role = "publisher"
)

// Key returns the entity map key the role resolves through.
func (r Role) Key() string {
	switch r {
	case RolePerson:
		return KeyPerson
	case RoleOrganisation:
		return KeyOrganization
	case RolePublisher:
		return KeyPublisher
	}
	return ""
}

// ParseRole parses a role name. "organization" is accepted as an alias of
// "organisation"; matching is case-insensitive.
func ParseRole(s string) (Role, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "person":
		return RolePerson, true
	case "organisation", "organization":
		return RoleOrganisation, true
	case "publisher":
		return RolePublisher, true
	}
	return "", false
}

// IdentityPriority is the ordered list of roles consulted when picking the
// WebSite's single primary identity.
type IdentityPriority []Role

// DefaultPriority applies when no priority is configured.
var DefaultPriority = IdentityPriority{RoleOrganisation, RolePerson, RolePublisher}

// ParsePriority parses role names, skipping unknown and repeated roles. An
// empty result yields DefaultPriority.
func ParsePriority(names []string) IdentityPriority {
	var out IdentityPriority
	seen := make(map[Role]bool)
	for _, name := range names {
		r, ok := ParseRole(name)
		if !ok || seen[r] {
			continue
		}
		seen[r] = true
		out = append(out, r)
	}
	if len(out) == 0 {
		return append(IdentityPriority(nil), DefaultPriority...)
	}
	return out
}

// Resolve walks p in order and returns the reference of the first role
// whose entity exists. Reference-only placeholders count as existing. The
// boolean is false when no role resolves; callers then omit the property.
func (p IdentityPriority) Resolve(ents *Entities) (graph.Ref, bool) {
	for _, r := range p {
		if ref := ents.Ref(r.Key()); !ref.IsZero() {
			return ref, true
		}
	}
	return graph.Ref{}, false
}

// Strings returns the role names in order.
func (p IdentityPriority) Strings() []string {
	out := make([]string, len(p))
	for i, r := range p {
		out[i] = string(r)
	}
	return out
}
