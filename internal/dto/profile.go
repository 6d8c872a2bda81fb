package dto

import (
	"strings"
	"time"

	"github.com/Payphone-Digital/clinic-admin/internal/model"
	"gorm.io/datatypes"
)

// AccountInput is the account half of every member create request
type AccountInput struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"required,min=10,max=15"`
	Password string `json:"password" binding:"omitempty,min=8,max=100"`
}

// ProfileCreate is implemented by the create request of each member kind
type ProfileCreate[T any] interface {
	AccountFields() AccountInput
	NewProfile() *T
}

// ProfileUpdate is implemented by the update request of each member kind
type ProfileUpdate interface {
	Changes() Changes
}

// Changes are column updates split by table. Only fields present in the request appear.
type Changes struct {
	Account map[string]any
	Profile map[string]any
}

func NewChanges() Changes {
	return Changes{Account: map[string]any{}, Profile: map[string]any{}}
}

func (c Changes) Empty() bool {
	return len(c.Account) == 0 && len(c.Profile) == 0
}

// Keep returns the changes whose column is in allowed, dropping the rest
func (c Changes) Keep(allowed map[string]struct{}) Changes {
	kept := NewChanges()
	for k, v := range c.Account {
		if _, ok := allowed[k]; ok {
			kept.Account[k] = v
		}
	}
	for k, v := range c.Profile {
		if _, ok := allowed[k]; ok {
			kept.Profile[k] = v
		}
	}
	return kept
}

func set[V any](m map[string]any, column string, v *V) {
	if v != nil {
		m[column] = *v
	}
}

func setAadhaar(m map[string]any, v *string) {
	if v == nil {
		return
	}
	m["aadhaar"] = optional(*v)
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// ProfileFilter drives member listings
type ProfileFilter struct {
	Search string
	Status string // active | inactive | all
	Page   int
	Limit  int
	Offset int
}

// CreatedMember is returned once on creation. Password is only set when it was generated.
type CreatedMember[T any] struct {
	Profile           *T     `json:"profile"`
	TemporaryPassword string `json:"temporary_password,omitempty"`
}

type CreateDoctorRequest struct {
	AccountInput
	Qualification    string   `json:"qualification" binding:"required"`
	RegistrationNo   string   `json:"registration_no"`
	Salary           float64  `json:"salary" binding:"gte=0"`
	Shift            string   `json:"shift"`
	Gender           string   `json:"gender"`
	Department       string   `json:"department"`
	Aadhaar          string   `json:"aadhaar" binding:"omitempty,aadhaar"`
	Address          string   `json:"address"`
	Experience       string   `json:"experience"`
	ConsultationFee  *float64 `json:"consultation_fee" binding:"omitempty,gte=0"`
	AvailabilityDays []string `json:"availability_days"`
	DocumentURL      string   `json:"document_url" binding:"omitempty,url"`
}

func (r *CreateDoctorRequest) AccountFields() AccountInput { return r.AccountInput }

func (r *CreateDoctorRequest) NewProfile() *model.DoctorProfile {
	return &model.DoctorProfile{
		Qualification:    r.Qualification,
		RegistrationNo:   r.RegistrationNo,
		Salary:           r.Salary,
		Shift:            r.Shift,
		Gender:           r.Gender,
		Department:       r.Department,
		Aadhaar:          optional(r.Aadhaar),
		Address:          r.Address,
		Experience:       r.Experience,
		ConsultationFee:  r.ConsultationFee,
		AvailabilityDays: datatypes.JSONSlice[string](r.AvailabilityDays),
		DocumentURL:      r.DocumentURL,
	}
}

type UpdateDoctorRequest struct {
	Name             *string   `json:"name" binding:"omitempty,min=2,max=100"`
	Phone            *string   `json:"phone" binding:"omitempty,min=10,max=15"`
	Qualification    *string   `json:"qualification"`
	RegistrationNo   *string   `json:"registration_no"`
	Salary           *float64  `json:"salary" binding:"omitempty,gte=0"`
	Shift            *string   `json:"shift"`
	Gender           *string   `json:"gender"`
	Department       *string   `json:"department"`
	Aadhaar          *string   `json:"aadhaar" binding:"omitempty,aadhaar"`
	Address          *string   `json:"address"`
	Experience       *string   `json:"experience"`
	ConsultationFee  *float64  `json:"consultation_fee" binding:"omitempty,gte=0"`
	AvailabilityDays *[]string `json:"availability_days"`
	DocumentURL      *string   `json:"document_url" binding:"omitempty,url"`
}

func (r *UpdateDoctorRequest) Changes() Changes {
	c := NewChanges()
	set(c.Account, "name", r.Name)
	set(c.Account, "phone", r.Phone)
	set(c.Profile, "qualification", r.Qualification)
	set(c.Profile, "registration_no", r.RegistrationNo)
	set(c.Profile, "salary", r.Salary)
	set(c.Profile, "shift", r.Shift)
	set(c.Profile, "gender", r.Gender)
	set(c.Profile, "department", r.Department)
	setAadhaar(c.Profile, r.Aadhaar)
	set(c.Profile, "address", r.Address)
	set(c.Profile, "experience", r.Experience)
	set(c.Profile, "consultation_fee", r.ConsultationFee)
	if r.AvailabilityDays != nil {
		c.Profile["availability_days"] = datatypes.JSONSlice[string](*r.AvailabilityDays)
	}
	set(c.Profile, "document_url", r.DocumentURL)
	return c
}

type CreateReceptionistRequest struct {
	AccountInput
	Experience  string  `json:"experience"`
	Salary      float64 `json:"salary" binding:"gte=0"`
	Shift       string  `json:"shift"`
	Gender      string  `json:"gender"`
	Aadhaar     string  `json:"aadhaar" binding:"omitempty,aadhaar"`
	Address     string  `json:"address"`
	DeskNumber  string  `json:"desk_number"`
	ShiftTiming string  `json:"shift_timing"`
}

func (r *CreateReceptionistRequest) AccountFields() AccountInput { return r.AccountInput }

func (r *CreateReceptionistRequest) NewProfile() *model.ReceptionistProfile {
	return &model.ReceptionistProfile{
		Experience:  r.Experience,
		Salary:      r.Salary,
		Shift:       r.Shift,
		Gender:      r.Gender,
		Aadhaar:     optional(r.Aadhaar),
		Address:     r.Address,
		DeskNumber:  r.DeskNumber,
		ShiftTiming: r.ShiftTiming,
	}
}

type UpdateReceptionistRequest struct {
	Name        *string  `json:"name" binding:"omitempty,min=2,max=100"`
	Phone       *string  `json:"phone" binding:"omitempty,min=10,max=15"`
	Experience  *string  `json:"experience"`
	Salary      *float64 `json:"salary" binding:"omitempty,gte=0"`
	Shift       *string  `json:"shift"`
	Gender      *string  `json:"gender"`
	Aadhaar     *string  `json:"aadhaar" binding:"omitempty,aadhaar"`
	Address     *string  `json:"address"`
	DeskNumber  *string  `json:"desk_number"`
	ShiftTiming *string  `json:"shift_timing"`
}

func (r *UpdateReceptionistRequest) Changes() Changes {
	c := NewChanges()
	set(c.Account, "name", r.Name)
	set(c.Account, "phone", r.Phone)
	set(c.Profile, "experience", r.Experience)
	set(c.Profile, "salary", r.Salary)
	set(c.Profile, "shift", r.Shift)
	set(c.Profile, "gender", r.Gender)
	setAadhaar(c.Profile, r.Aadhaar)
	set(c.Profile, "address", r.Address)
	set(c.Profile, "desk_number", r.DeskNumber)
	set(c.Profile, "shift_timing", r.ShiftTiming)
	return c
}

type CreateStaffRequest struct {
	AccountInput
	Skill          string     `json:"skill"`
	Category       string     `json:"category"`
	Experience     string     `json:"experience"`
	Salary         float64    `json:"salary" binding:"gte=0"`
	Shift          string     `json:"shift"`
	Gender         string     `json:"gender"`
	Aadhaar        string     `json:"aadhaar" binding:"omitempty,aadhaar"`
	Address        string     `json:"address"`
	RegistrationNo string     `json:"registration_no"`
	Department     string     `json:"department"`
	StaffCode      string     `json:"staff_code"`
	JoiningDate    *time.Time `json:"joining_date"`
	RoleBadge      string     `json:"role_badge"`
}

func (r *CreateStaffRequest) AccountFields() AccountInput { return r.AccountInput }

func (r *CreateStaffRequest) NewProfile() *model.StaffProfile {
	return &model.StaffProfile{
		Skill:          r.Skill,
		Category:       r.Category,
		Experience:     r.Experience,
		Salary:         r.Salary,
		Shift:          r.Shift,
		Gender:         r.Gender,
		Aadhaar:        optional(r.Aadhaar),
		Address:        r.Address,
		RegistrationNo: r.RegistrationNo,
		Department:     r.Department,
		StaffCode:      r.StaffCode,
		JoiningDate:    r.JoiningDate,
		RoleBadge:      r.RoleBadge,
	}
}

type UpdateStaffRequest struct {
	Name           *string    `json:"name" binding:"omitempty,min=2,max=100"`
	Phone          *string    `json:"phone" binding:"omitempty,min=10,max=15"`
	Skill          *string    `json:"skill"`
	Category       *string    `json:"category"`
	Experience     *string    `json:"experience"`
	Salary         *float64   `json:"salary" binding:"omitempty,gte=0"`
	Shift          *string    `json:"shift"`
	Gender         *string    `json:"gender"`
	Aadhaar        *string    `json:"aadhaar" binding:"omitempty,aadhaar"`
	Address        *string    `json:"address"`
	RegistrationNo *string    `json:"registration_no"`
	Department     *string    `json:"department"`
	StaffCode      *string    `json:"staff_code"`
	JoiningDate    *time.Time `json:"joining_date"`
	RoleBadge      *string    `json:"role_badge"`
}

func (r *UpdateStaffRequest) Changes() Changes {
	c := NewChanges()
	set(c.Account, "name", r.Name)
	set(c.Account, "phone", r.Phone)
	set(c.Profile, "skill", r.Skill)
	set(c.Profile, "category", r.Category)
	set(c.Profile, "experience", r.Experience)
	set(c.Profile, "salary", r.Salary)
	set(c.Profile, "shift", r.Shift)
	set(c.Profile, "gender", r.Gender)
	setAadhaar(c.Profile, r.Aadhaar)
	set(c.Profile, "address", r.Address)
	set(c.Profile, "registration_no", r.RegistrationNo)
	set(c.Profile, "department", r.Department)
	set(c.Profile, "staff_code", r.StaffCode)
	set(c.Profile, "joining_date", r.JoiningDate)
	set(c.Profile, "role_badge", r.RoleBadge)
	return c
}
