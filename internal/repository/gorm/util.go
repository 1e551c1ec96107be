package gorm

import "gorm.io/gorm"

func limitAndOffset(limit, offset int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if offset > 0 {
			db = db.Offset(offset)
		}
		if limit > 0 {
			db = db.Limit(limit)
		}
		return db
	}
}

// exists reports whether the scoped query matches at least one row.
func exists(db *gorm.DB) (bool, error) {
	var n int64
	if err := db.Limit(1).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}
