package database

import (
	"fmt"
	"log"

	config "github.com/anjiri1684/mentor_hub/configs"
	"github.com/anjiri1684/mentor_hub/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDB() {
	var err error
	dsn := config.Config("DATABASE_URL")

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		PrepareStmt:                              false,
		SkipDefaultTransaction:                   true,
		DisableForeignKeyConstraintWhenMigrating: true,
		DisableNestedTransaction:                 true,
		TranslateError:                           true,
	})
	if err != nil {
		log.Fatalf("🔥 Failed to connect to database: %v", err)
	}

	fmt.Println("✅ Database connected successfully")
}

func Migrate() {
	err := DB.AutoMigrate(
		&models.User{},
		&models.Booking{},
		&models.Certificate{},
	)
	if err != nil {
		log.Fatalf("🔥 Failed to migrate database: %v", err)
	}

	// Backstop for the create-time conflict check: two live bookings can
	// never share a mentor slot, even under concurrent creates. Partial
	// index because terminal bookings free the slot for rebooking.
	err = DB.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_bookings_live_slot
		ON bookings (mentor_id, session_date, session_time)
		WHERE status IN ('pending', 'confirmed')
	`).Error
	if err != nil {
		log.Fatalf("🔥 Failed to create slot uniqueness index: %v", err)
	}

	fmt.Println("✅ Database migration successful")
}
