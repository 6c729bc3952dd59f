package mysql

import (
	"fmt"
	"time"

	"storefront/internal/config"
	"storefront/internal/domain"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// DSN builds the driver connection string. clientFoundRows makes an UPDATE
// that matches a row report it as affected even when nothing changed.
func DSN(c config.MySQL) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local&clientFoundRows=true",
		c.User, c.Password, c.Host, c.Port, c.Database)
}

func NewMySQL(c config.MySQL) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(DSN(c)), &gorm.Config{
		NamingStrategy: schema.NamingStrategy{
			SingularTable: false,
		},
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(c.MaxOpenConns)
	sqlDB.SetMaxIdleConns(c.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetConnMaxIdleTime(1 * time.Minute)

	if err := db.AutoMigrate(&domain.Order{}, &domain.Product{}, &domain.Counter{}); err != nil {
		return nil, err
	}

	return db, nil
}
