package models

import (
	"fmt"
	"strings"
)

type Permission string

const (
	PermissionAdmin            Permission = "ADMIN"
	PermissionUser             Permission = "USER"
	PermissionItemCreate       Permission = "ITEMCREATE"
	PermissionItemUpdate       Permission = "ITEMUPDATE"
	PermissionItemDelete       Permission = "ITEMDELETE"
	PermissionPermissionUpdate Permission = "PERMISSIONUPDATE"
)

// AllPermissions lists every known tag in display order.
var AllPermissions = []Permission{
	PermissionAdmin,
	PermissionUser,
	PermissionItemCreate,
	PermissionItemUpdate,
	PermissionItemDelete,
	PermissionPermissionUpdate,
}

func (p Permission) Valid() bool {
	for _, known := range AllPermissions {
		if p == known {
			return true
		}
	}
	return false
}

// ParsePermissions converts raw tags into permissions, rejecting unknown ones
// and dropping duplicates.
func ParsePermissions(raw []string) ([]Permission, error) {
	out := make([]Permission, 0, len(raw))
	seen := make(map[Permission]struct{}, len(raw))
	for _, r := range raw {
		p := Permission(strings.ToUpper(strings.TrimSpace(r)))
		if !p.Valid() {
			return nil, fmt.Errorf("unknown permission %q", r)
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out, nil
}

// JoinPermissions encodes a permission set for the permissions column.
func JoinPermissions(perms []Permission) string {
	parts := make([]string, len(perms))
	for i, p := range perms {
		parts[i] = string(p)
	}
	return strings.Join(parts, ",")
}

// SplitPermissions decodes the permissions column. Empty segments are skipped.
func SplitPermissions(s string) []Permission {
	var out []Permission
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, Permission(part))
		}
	}
	return out
}
