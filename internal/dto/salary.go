package dto

import (
	"time"

	"github.com/Payphone-Digital/clinic-admin/internal/constants"
	"github.com/Payphone-Digital/clinic-admin/internal/model"
)

type AddSalaryEntryRequest struct {
	UserID   string               `json:"user_id" binding:"required,uuid"`
	UserRole constants.Role       `json:"user_role" binding:"required"`
	Type     constants.SalaryType `json:"type" binding:"required"`
	Amount   float64              `json:"amount"`
	Reason   string               `json:"reason" binding:"max=255"`
	Month    int                  `json:"month"`
	Year     int                  `json:"year" binding:"required"`
}

type ReviseBaseSalaryRequest struct {
	UserID    string         `json:"user_id" binding:"required,uuid"`
	UserRole  constants.Role `json:"user_role" binding:"required"`
	NewSalary float64        `json:"new_salary"`
	Reason    string         `json:"reason" binding:"max=255"`
	Month     int            `json:"month"`
	Year      int            `json:"year" binding:"required"`
}

// SalaryQuery selects the ledger of one account. Month zero means the whole year.
type SalaryQuery struct {
	UserID   string         `form:"user_id" binding:"required"`
	UserRole constants.Role `form:"user_role" binding:"required"`
	Month    int            `form:"month"`
	Year     int            `form:"year"`
}

type SalarySummary struct {
	UserID      string              `json:"user_id"`
	UserRole    constants.Role      `json:"user_role"`
	Month       int                 `json:"month,omitempty"`
	Year        int                 `json:"year"`
	BasePolicy  string              `json:"base_policy"`
	BaseSalary  float64             `json:"base_salary"`
	Bonus       float64             `json:"bonus"`
	Penalty     float64             `json:"penalty"`
	NetSalary   float64             `json:"net_salary"`
	Adjustments []model.SalaryEntry `json:"adjustments"`
}

type Payslip struct {
	SalarySummary
	EmployeeName  string    `json:"employee_name"`
	EmployeeEmail string    `json:"employee_email"`
	GeneratedAt   time.Time `json:"generated_at"`
}

type SalaryHistory struct {
	Count   int                 `json:"count"`
	Entries []model.SalaryEntry `json:"entries"`
}
