// Package authz holds the single ownership rule used by every handler that acts on a
// user-owned resource.
package authz

import "github.com/gocql/gocql"

// Resource is anything owned by exactly one user.
type Resource interface {
	OwnerID() gocql.UUID
}

// Allow reports whether actor may modify or read the private parts of resource.
// A zero actor (anonymous) is never allowed.
func Allow(actor gocql.UUID, resource Resource) bool {
	if actor == (gocql.UUID{}) {
		return false
	}
	return resource.OwnerID() == actor
}
