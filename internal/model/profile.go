package model

import (
	"time"

	"github.com/Payphone-Digital/clinic-admin/internal/constants"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// RoleProfile is the closed set of role specific records an account can own.
// Only types in this package implement it.
type RoleProfile interface {
	Role() constants.Role
	bind(account *Account)
}

// MemberProfile is a salaried profile variant (doctor, receptionist, staff)
type MemberProfile interface {
	RoleProfile
	GetID() string
	GetAccountID() string
	GetAccount() *Account
	GetAadhaar() *string
	GetSalary() float64
}

func newProfileID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

type DoctorProfile struct {
	ID               string                      `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	AccountID        string                      `gorm:"column:account_id;type:uuid;uniqueIndex;not null" json:"account_id"`
	Account          *Account                    `gorm:"foreignKey:AccountID" json:"account,omitempty"`
	Qualification    string                      `gorm:"column:qualification" json:"qualification"`
	RegistrationNo   string                      `gorm:"column:registration_no" json:"registration_no"`
	Salary           float64                     `gorm:"column:salary;not null;default:0" json:"salary"`
	Shift            string                      `gorm:"column:shift" json:"shift"`
	Gender           string                      `gorm:"column:gender" json:"gender"`
	Department       string                      `gorm:"column:department;index" json:"department"`
	Aadhaar          *string                     `gorm:"column:aadhaar;type:varchar(12);uniqueIndex" json:"aadhaar,omitempty"`
	Address          string                      `gorm:"column:address" json:"address"`
	Experience       string                      `gorm:"column:experience" json:"experience"`
	ConsultationFee  *float64                    `gorm:"column:consultation_fee" json:"consultation_fee,omitempty"`
	AvailabilityDays datatypes.JSONSlice[string] `gorm:"column:availability_days" json:"availability_days"`
	DocumentURL      string                      `gorm:"column:document_url" json:"document_url"`
	CreatedAt        time.Time                   `gorm:"column:created_at" json:"created_at"`
	UpdatedAt        time.Time                   `gorm:"column:updated_at" json:"updated_at"`
}

func (DoctorProfile) TableName() string { return "doctor_profiles" }

func (p *DoctorProfile) BeforeCreate(tx *gorm.DB) error {
	newProfileID(&p.ID)
	return nil
}

func (p *DoctorProfile) Role() constants.Role { return constants.RoleDoctor }
func (p *DoctorProfile) GetID() string        { return p.ID }
func (p *DoctorProfile) GetAccountID() string { return p.AccountID }
func (p *DoctorProfile) GetAccount() *Account { return p.Account }
func (p *DoctorProfile) GetAadhaar() *string  { return p.Aadhaar }
func (p *DoctorProfile) GetSalary() float64   { return p.Salary }

func (p *DoctorProfile) bind(a *Account) {
	newProfileID(&p.ID)
	p.AccountID = a.ID
	a.Doctor = p
}

type ReceptionistProfile struct {
	ID          string    `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	AccountID   string    `gorm:"column:account_id;type:uuid;uniqueIndex;not null" json:"account_id"`
	Account     *Account  `gorm:"foreignKey:AccountID" json:"account,omitempty"`
	Experience  string    `gorm:"column:experience" json:"experience"`
	Salary      float64   `gorm:"column:salary;not null;default:0" json:"salary"`
	Shift       string    `gorm:"column:shift" json:"shift"`
	Gender      string    `gorm:"column:gender" json:"gender"`
	Aadhaar     *string   `gorm:"column:aadhaar;type:varchar(12);uniqueIndex" json:"aadhaar,omitempty"`
	Address     string    `gorm:"column:address" json:"address"`
	DeskNumber  string    `gorm:"column:desk_number" json:"desk_number"`
	ShiftTiming string    `gorm:"column:shift_timing" json:"shift_timing"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (ReceptionistProfile) TableName() string { return "receptionist_profiles" }

func (p *ReceptionistProfile) BeforeCreate(tx *gorm.DB) error {
	newProfileID(&p.ID)
	return nil
}

func (p *ReceptionistProfile) Role() constants.Role { return constants.RoleReceptionist }
func (p *ReceptionistProfile) GetID() string        { return p.ID }
func (p *ReceptionistProfile) GetAccountID() string { return p.AccountID }
func (p *ReceptionistProfile) GetAccount() *Account { return p.Account }
func (p *ReceptionistProfile) GetAadhaar() *string  { return p.Aadhaar }
func (p *ReceptionistProfile) GetSalary() float64   { return p.Salary }

func (p *ReceptionistProfile) bind(a *Account) {
	newProfileID(&p.ID)
	p.AccountID = a.ID
	a.Receptionist = p
}

type StaffProfile struct {
	ID             string     `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	AccountID      string     `gorm:"column:account_id;type:uuid;uniqueIndex;not null" json:"account_id"`
	Account        *Account   `gorm:"foreignKey:AccountID" json:"account,omitempty"`
	Skill          string     `gorm:"column:skill" json:"skill"`
	Category       string     `gorm:"column:category;index" json:"category"`
	Experience     string     `gorm:"column:experience" json:"experience"`
	Salary         float64    `gorm:"column:salary;not null;default:0" json:"salary"`
	Shift          string     `gorm:"column:shift" json:"shift"`
	Gender         string     `gorm:"column:gender" json:"gender"`
	Aadhaar        *string    `gorm:"column:aadhaar;type:varchar(12);uniqueIndex" json:"aadhaar,omitempty"`
	Address        string     `gorm:"column:address" json:"address"`
	RegistrationNo string     `gorm:"column:registration_no" json:"registration_no"`
	Department     string     `gorm:"column:department" json:"department"`
	StaffCode      string     `gorm:"column:staff_code" json:"staff_code"`
	JoiningDate    *time.Time `gorm:"column:joining_date" json:"joining_date,omitempty"`
	RoleBadge      string     `gorm:"column:role_badge" json:"role_badge"`
	CreatedAt      time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"column:updated_at" json:"updated_at"`
}

func (StaffProfile) TableName() string { return "staff_profiles" }

func (p *StaffProfile) BeforeCreate(tx *gorm.DB) error {
	newProfileID(&p.ID)
	return nil
}

func (p *StaffProfile) Role() constants.Role { return constants.RoleStaff }
func (p *StaffProfile) GetID() string        { return p.ID }
func (p *StaffProfile) GetAccountID() string { return p.AccountID }
func (p *StaffProfile) GetAccount() *Account { return p.Account }
func (p *StaffProfile) GetAadhaar() *string  { return p.Aadhaar }
func (p *StaffProfile) GetSalary() float64   { return p.Salary }

func (p *StaffProfile) bind(a *Account) {
	newProfileID(&p.ID)
	p.AccountID = a.ID
	a.Staff = p
}

// ProfileTable returns the table holding the salaried profile for role
func ProfileTable(role constants.Role) (string, bool) {
	switch role {
	case constants.RoleDoctor:
		return DoctorProfile{}.TableName(), true
	case constants.RoleReceptionist:
		return ReceptionistProfile{}.TableName(), true
	case constants.RoleStaff:
		return StaffProfile{}.TableName(), true
	}
	return "", false
}
