package constants

import "fmt"

// Role values stored on users.role
const (
	RoleAdmin   = "admin"
	RoleStudent = "student"
	RoleCompany = "company"
	RoleTeacher = "teacher"
)

// Role error message templates
const (
	ErrOnlyAdminsCanAccess    = "Only admins may access %s."
	ErrOnlyCompaniesCanAccess = "Only companies may access %s."
	ErrOnlyStudentsCanAccess  = "Only students may access %s."
	ErrOnlyStaffCanAccess     = "Only admins or teachers may access %s."
)

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}

func RoleErrorCompany(feature string) string {
	return fmt.Sprintf(ErrOnlyCompaniesCanAccess, feature)
}

func RoleErrorStudent(feature string) string {
	return fmt.Sprintf(ErrOnlyStudentsCanAccess, feature)
}

func RoleErrorStaff(feature string) string {
	return fmt.Sprintf(ErrOnlyStaffCanAccess, feature)
}

// ==========================
// Grouped Role Slices
// ==========================
var (
	AllRoles = []string{
		RoleAdmin,
		RoleStudent,
		RoleCompany,
		RoleTeacher,
	}

	AdminOnly = []string{
		RoleAdmin,
	}

	CompanyAndAdmin = []string{
		RoleCompany,
		RoleAdmin,
	}

	StudentAndAdmin = []string{
		RoleStudent,
		RoleAdmin,
	}

	StaffRoles = []string{
		RoleTeacher,
		RoleAdmin,
	}
)

func IsValidRole(role string) bool {
	for _, r := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}
