package dao

import "gorm.io/gorm"

func InitTables(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&RegistrationID{},
		&Cafe{},
		&Price{},
		&PriceModifier{},
		&Run{},
		&Coffee{},
		&MoneyExchange{},
		&Event{},
	)
}
