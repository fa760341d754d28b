package models

import "gorm.io/gorm"

// All returns every model the API persists, in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Follow{},
		&Notification{},
		&Post{},
		&PostComment{},
		&ResetPassword{},
	}
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(All()...)
}
