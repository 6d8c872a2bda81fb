package dto

import "time"

type SuperAdminSummary struct {
	TotalAdmins          int64 `json:"total_admins"`
	ActiveAdmins         int64 `json:"active_admins"`
	InactiveAdmins       int64 `json:"inactive_admins"`
	ExpiredSubscriptions int64 `json:"expired_subscriptions"`
	ExpiringSoon         int64 `json:"expiring_soon"`
}

type SubscriptionBreakdown struct {
	Active       int64 `json:"active"`
	ExpiringSoon int64 `json:"expiring_soon"`
	Expired      int64 `json:"expired"`
	Total        int64 `json:"total"`
}

type AdminStatistics struct {
	// MonthlyRegistrations is keyed by YYYY-MM
	MonthlyRegistrations  map[string]int64      `json:"monthly_registrations"`
	SubscriptionBreakdown SubscriptionBreakdown `json:"subscription_breakdown"`
}

type ClinicSummary struct {
	ID                 string     `json:"id"`
	Name               string     `json:"name"`
	Email              string     `json:"email"`
	ClinicName         string     `json:"clinic_name"`
	Location           string     `json:"location"`
	IsActive           bool       `json:"is_active"`
	SubscriptionExpiry *time.Time `json:"subscription_expiry,omitempty"`
	SubscriptionStatus string     `json:"subscription_status"`
	DaysRemaining      *int       `json:"days_remaining"`
	CreatedAt          time.Time  `json:"created_at"`
}

type HeadCount struct {
	TotalDoctors       int64 `json:"total_doctors"`
	TotalReceptionists int64 `json:"total_receptionists"`
	TotalStaff         int64 `json:"total_staff"`
	TotalPatients      int64 `json:"total_patients"`
	TotalEmployees     int64 `json:"total_employees"`
}

type AdminDashboard struct {
	Clinic ClinicSummary `json:"clinic"`
	Staff  HeadCount     `json:"staff"`
}
