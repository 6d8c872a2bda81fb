package database

import (
	"github.com/Payphone-Digital/clinic-admin/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// indexStatements are the composite and partial indexes gorm tags cannot express
var indexStatements = []string{
	// admin listing filters on role and status and sorts by created_at
	"CREATE INDEX IF NOT EXISTS idx_accounts_role_active_created ON accounts(role, is_active, created_at DESC);",
	// case-insensitive search over name and email
	"CREATE INDEX IF NOT EXISTS idx_accounts_lower_name ON accounts(lower(name));",
	"CREATE INDEX IF NOT EXISTS idx_accounts_lower_email ON accounts(lower(email));",
	// OTP verification looks up live challenges only
	"CREATE INDEX IF NOT EXISTS idx_accounts_live_otp ON accounts(id, otp_code) WHERE otp_code IS NOT NULL;",
	"CREATE INDEX IF NOT EXISTS idx_accounts_live_reset ON accounts(reset_token_hash, reset_expires_at) WHERE reset_token_hash IS NOT NULL;",

	"CREATE INDEX IF NOT EXISTS idx_doctor_profiles_created ON doctor_profiles(created_at DESC);",
	"CREATE INDEX IF NOT EXISTS idx_receptionist_profiles_created ON receptionist_profiles(created_at DESC);",
	"CREATE INDEX IF NOT EXISTS idx_staff_profiles_created ON staff_profiles(created_at DESC);",

	// history is read newest first per owner
	"CREATE INDEX IF NOT EXISTS idx_salary_entries_owner_created ON salary_entries(user_id, user_role, created_at DESC);",
	"CREATE INDEX IF NOT EXISTS idx_salary_entries_revisions ON salary_entries(user_id, user_role, year DESC, month DESC) WHERE type = 'REVISION';",
}

// CreateIndexes creates the secondary indexes. A failing statement is logged and skipped.
func CreateIndexes(db *gorm.DB) error {
	created := 0
	for _, statement := range indexStatements {
		if err := db.Exec(statement).Error; err != nil {
			logger.GetLogger().Warn("Failed to create index",
				zap.String("statement", statement),
				zap.Error(err),
			)
			continue
		}
		created++
	}

	logger.GetLogger().Info("Secondary indexes ensured",
		zap.Int("created", created),
		zap.Int("total", len(indexStatements)),
	)
	return nil
}
