package gate

import "context"

// Profile is a named set of permissions.
type Profile interface {
	Name() string
	HasPermission(permission Permission) bool
	Permissions() []Permission
}

// ProfileResolver maps a subject identity to its profile.
// Returning (nil, nil) means the identity is unknown; the gate denies it.
type ProfileResolver interface {
	Resolve(ctx context.Context, identity string) (Profile, error)
}

// StaticProfile is an in-memory profile, useful for declarative tables and tests.
type StaticProfile struct {
	name        string
	permissions map[Permission]bool
}

// NewStaticProfile creates a profile holding the given permissions.
func NewStaticProfile(name string, permissions ...Permission) *StaticProfile {
	p := &StaticProfile{name: name, permissions: make(map[Permission]bool, len(permissions))}
	for _, perm := range permissions {
		p.permissions[perm] = true
	}
	return p
}

func (p *StaticProfile) Name() string { return p.name }

// Permissions returns all permissions in this profile.
func (p *StaticProfile) Permissions() []Permission {
	perms := make([]Permission, 0, len(p.permissions))
	for perm := range p.permissions {
		perms = append(perms, perm)
	}
	return perms
}

// HasPermission checks the requested permission, honoring wildcards.
func (p *StaticProfile) HasPermission(requested Permission) bool {
	for perm := range p.permissions {
		if perm.Matches(requested) {
			return true
		}
	}
	return false
}

// StaticResolver resolves identities from a fixed map.
type StaticResolver struct {
	profiles map[string]Profile
}

// NewStaticResolver creates an empty resolver.
func NewStaticResolver() *StaticResolver {
	return &StaticResolver{profiles: make(map[string]Profile)}
}

// Set assigns a profile to an identity.
func (r *StaticResolver) Set(identity string, profile Profile) {
	r.profiles[identity] = profile
}

// Resolve returns the profile for the identity, or nil when unknown.
func (r *StaticResolver) Resolve(_ context.Context, identity string) (Profile, error) {
	if profile, ok := r.profiles[identity]; ok {
		return profile, nil
	}
	return nil, nil
}
