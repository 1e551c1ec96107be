package migration

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

var v2Indexes = []string{
	"CREATE INDEX IF NOT EXISTS idx_user_reports_open ON user_reports (reported_user_id) WHERE status = 'new'",
	"CREATE INDEX IF NOT EXISTS idx_listing_reports_open ON listing_reports (section, listing_id) WHERE status = 'new'",
	"CREATE INDEX IF NOT EXISTS idx_profiles_feed ON profiles (last_activated_at DESC) WHERE status = 'active'",
}

// v2 partial indexes for open report counting and the feed
func v2() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "2",
		Migrate: func(db *gorm.DB) error {
			return createIndexes(db, v2Indexes)
		},
		Rollback: func(db *gorm.DB) error {
			for _, name := range []string{"idx_user_reports_open", "idx_listing_reports_open", "idx_profiles_feed"} {
				if err := db.Exec("DROP INDEX IF EXISTS " + name).Error; err != nil {
					return err
				}
			}
			return nil
		},
	}
}
