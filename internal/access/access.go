// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package access is the role gate shared by the server middleware and the
// client route guard. Matching is strict: a role satisfies only itself.
package access

import "github.com/MKhiriev/go-study-platform/models"

// Decision is the outcome of [Authorize].
type Decision int

const (
	Allow Decision = iota
	DenyUnauthenticated
	DenyForbidden
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case DenyUnauthenticated:
		return "deny_unauthenticated"
	case DenyForbidden:
		return "deny_forbidden"
	}
	return "unknown"
}

// Public marks a resource that requires no role.
const Public models.Role = ""

// Authorize decides whether identity may access a resource that requires
// the given role. A nil identity means no valid session is present.
// Inactive accounts are denied every role-gated resource.
func Authorize(identity *models.Identity, required models.Role) Decision {
	if required == Public {
		return Allow
	}
	if identity == nil {
		return DenyUnauthenticated
	}
	if !identity.Active() {
		return DenyForbidden
	}
	if identity.Role != required {
		return DenyForbidden
	}
	return Allow
}
