package migration

import (
	"github.com/go-gormigrate/gormigrate/v2"

	"tg-miniapp-backend/internal/models"
)

// Migrations lists every migration. New migrations are appended at the end.
func Migrations() []*gormigrate.Migration {
	return []*gormigrate.Migration{
		v1(), // users, moderators, dating, listings and report tables
		v2(), // partial indexes for open reports and the feed
	}
}

// AllTables is every model of the latest schema.
func AllTables() []interface{} {
	return []interface{}{
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
	}
}

var allForeignKeys = v1ForeignKeys

var allIndexes = v2Indexes
