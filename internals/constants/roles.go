package constants

import "fmt"

// Role names as stored on users.role
const (
	RoleOwner = "owner"
	RoleAdmin = "admin"
	RoleStaff = "staff"
	RoleUser  = "user"
)

// Role error message templates
const (
	ErrOnlyStaffCanAccess  = "❌ Only staff, admin, or owner may access %s."
	ErrOnlyAdminsCanAccess = "❌ Only admin may access %s."
	ErrOnlyOwnersCanAccess = "❌ Only owner may access %s."
)

func RoleErrorStaff(feature string) string {
	return fmt.Sprintf(ErrOnlyStaffCanAccess, feature)
}

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}

func RoleErrorOwner(feature string) string {
	return fmt.Sprintf(ErrOnlyOwnersCanAccess, feature)
}

// ==========================
// ✅ Grouped Role Slices
// ==========================
var (
	StaffAndAbove = []string{RoleStaff, RoleAdmin, RoleOwner}
	AdminAndAbove = []string{RoleAdmin, RoleOwner}
	OwnerOnly     = []string{RoleOwner}
)
