package entity

import (
	"fmt"
	"strings"
)

// Role represents a staff role in the system
type Role string

const (
	RoleAdmin          Role = "admin"
	RoleApprover       Role = "approver"
	RoleCleaner        Role = "cleaner"
	RolePaymentManager Role = "payment_manager"
)

// ApproverRoles may decide on and edit bookings.
var ApproverRoles = []Role{RoleAdmin, RoleApprover}

// PaymentManagerRoles may mark bookings as paid or unpaid.
var PaymentManagerRoles = []Role{RoleAdmin, RolePaymentManager}

// PaymentViewerRoles may see the payment list.
var PaymentViewerRoles = []Role{RoleAdmin, RoleApprover, RolePaymentManager}

// ParseRole accepts any casing and spaces for underscores, e.g. "Payment Manager".
func ParseRole(s string) (Role, error) {
	role := Role(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "_"))
	switch role {
	case RoleAdmin, RoleApprover, RoleCleaner, RolePaymentManager:
		return role, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}
