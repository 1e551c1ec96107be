package migration

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"

	"tg-miniapp-backend/internal/models"
)

var v1ForeignKeys = [][6]string{
	{"profiles", "fk_profiles_user_id", "user_id", "users(id)", "CASCADE", "CASCADE"},
	{"swipes", "fk_swipes_from_user_id", "from_user_id", "users(id)", "CASCADE", "CASCADE"},
	{"swipes", "fk_swipes_to_profile_id", "to_profile_id", "profiles(id)", "CASCADE", "CASCADE"},
	{"matches", "fk_matches_user1_id", "user1_id", "users(id)", "CASCADE", "CASCADE"},
	{"matches", "fk_matches_user2_id", "user2_id", "users(id)", "CASCADE", "CASCADE"},
	{"market_listings", "fk_market_listings_owner_id", "owner_id", "users(id)", "CASCADE", "CASCADE"},
	{"housing_listings", "fk_housing_listings_owner_id", "owner_id", "users(id)", "CASCADE", "CASCADE"},
	{"job_listings", "fk_job_listings_owner_id", "owner_id", "users(id)", "CASCADE", "CASCADE"},
	{"user_reports", "fk_user_reports_reporter_id", "reporter_id", "users(id)", "CASCADE", "CASCADE"},
	{"user_reports", "fk_user_reports_reported_user_id", "reported_user_id", "users(id)", "CASCADE", "CASCADE"},
	{"listing_reports", "fk_listing_reports_reporter_id", "reporter_id", "users(id)", "CASCADE", "CASCADE"},
}

// v1 initial schema
func v1() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "1",
		Migrate: func(db *gorm.DB) error {
			if err := db.AutoMigrate(
				&models.User{},
				&models.Moderator{},
				&models.Profile{},
				&models.Swipe{},
				&models.Match{},
				&models.MarketListing{},
				&models.HousingListing{},
				&models.JobListing{},
				&models.UserReport{},
				&models.ListingReport{},
			); err != nil {
				return err
			}
			return addForeignKeys(db, v1ForeignKeys)
		},
		Rollback: func(db *gorm.DB) error {
			return db.Migrator().DropTable(AllTables()...)
		},
	}
}
