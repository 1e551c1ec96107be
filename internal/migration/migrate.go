package migration

import (
	"fmt"

	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// Migrate applies every pending migration. A fresh database is created from AllTables directly.
func Migrate(db *gorm.DB) error {
	m := gormigrate.New(db, &gormigrate.Options{
		TableName:      "migrations",
		IDColumnName:   "id",
		IDColumnSize:   190,
		UseTransaction: false,
	}, Migrations())
	m.InitSchema(func(db *gorm.DB) error {
		if err := db.AutoMigrate(AllTables()...); err != nil {
			return err
		}
		if err := addForeignKeys(db, allForeignKeys); err != nil {
			return err
		}
		return createIndexes(db, allIndexes)
	})
	return m.Migrate()
}

// DropAll drops every table, including the migrations bookkeeping table.
func DropAll(db *gorm.DB) error {
	if err := db.Migrator().DropTable(AllTables()...); err != nil {
		return err
	}
	return db.Migrator().DropTable("migrations")
}

func addForeignKeys(db *gorm.DB, keys [][6]string) error {
	for _, c := range keys {
		// table name, constraint name, field name, references, on delete, on update
		q := fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s ON DELETE %s ON UPDATE %s", c[0], c[1], c[2], c[3], c[4], c[5])
		if err := db.Exec(q).Error; err != nil {
			return err
		}
	}
	return nil
}

func createIndexes(db *gorm.DB, indexes []string) error {
	for _, q := range indexes {
		if err := db.Exec(q).Error; err != nil {
			return err
		}
	}
	return nil
}
