package model

import (
	"time"

	"github.com/Payphone-Digital/clinic-admin/internal/constants"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SalaryEntry is an immutable ledger row. Rows are inserted, never updated or deleted.
type SalaryEntry struct {
	ID        string               `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID    string               `gorm:"column:user_id;type:uuid;not null;index:idx_salary_entries_owner_period,priority:1" json:"user_id"`
	UserRole  constants.Role       `gorm:"column:user_role;type:varchar(20);not null;index:idx_salary_entries_owner_period,priority:2" json:"user_role"`
	Type      constants.SalaryType `gorm:"column:type;type:varchar(10);not null" json:"type"`
	Amount    float64              `gorm:"column:amount;not null" json:"amount"`
	Reason    string               `gorm:"column:reason" json:"reason"`
	Month     int                  `gorm:"column:month;not null;index:idx_salary_entries_owner_period,priority:4" json:"month"`
	Year      int                  `gorm:"column:year;not null;index:idx_salary_entries_owner_period,priority:3" json:"year"`
	CreatedAt time.Time            `gorm:"column:created_at;index" json:"created_at"`
}

func (SalaryEntry) TableName() string { return "salary_entries" }

func (e *SalaryEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

// Period identifies a payroll month. Month zero means the whole year.
type Period struct {
	Month int
	Year  int
}

// Covers reports whether the entry falls inside the period
func (p Period) Covers(e SalaryEntry) bool {
	if e.Year != p.Year {
		return false
	}
	return p.Month == 0 || e.Month == p.Month
}

// NotAfter reports whether the entry belongs to the period or an earlier one
func (p Period) NotAfter(e SalaryEntry) bool {
	if e.Year != p.Year {
		return e.Year < p.Year
	}
	return p.Month == 0 || e.Month <= p.Month
}
