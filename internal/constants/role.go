package constants

// Role identifies what an account may do. SUPER_ADMIN is never persisted.
type Role string

const (
	RoleSuperAdmin   Role = "SUPER_ADMIN"
	RoleAdmin        Role = "ADMIN"
	RoleDoctor       Role = "DOCTOR"
	RoleReceptionist Role = "RECEPTIONIST"
	RoleStaff        Role = "STAFF"
	RolePatient      Role = "PATIENT"
)

// String implements fmt.Stringer
func (r Role) String() string {
	return string(r)
}

// IsValid reports whether r is a known role
func (r Role) IsValid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleDoctor, RoleReceptionist, RoleStaff, RolePatient:
		return true
	}
	return false
}

// IsSalaried reports whether accounts with this role carry a base salary
func (r Role) IsSalaried() bool {
	return r == RoleDoctor || r == RoleReceptionist || r == RoleStaff
}

// Salary entry types
type SalaryType string

const (
	SalaryBonus    SalaryType = "BONUS"
	SalaryPenalty  SalaryType = "PENALTY"
	SalaryRevision SalaryType = "REVISION"
)

// IsValid reports whether t is a known salary entry type
func (t SalaryType) IsValid() bool {
	return t == SalaryBonus || t == SalaryPenalty || t == SalaryRevision
}
