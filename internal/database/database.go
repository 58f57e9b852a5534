package database

import (
	"log"
	"os"
	"time"

	"storiny/backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Connect initializes the database connection and runs migrations.
func Connect(dsn string) {
	var err error

	// Configure GORM logger
	customLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags), // io writer
		logger.Config{
			SlowThreshold:             200 * time.Millisecond, // Slow SQL threshold
			LogLevel:                  logger.Warn,            // Log level
			IgnoreRecordNotFoundError: true,                   // Ignore ErrRecordNotFound error for logger
			Colorful:                  true,                   // Enable color
		},
	)

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: customLogger,
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	log.Println("Database connection established.")

	if err := Migrate(DB); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	log.Println("Database migrated successfully.")
}

// Migrate runs schema migrations for every table. Shared with tests, which
// run it against an in-memory SQLite database.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Asset{},
		&models.User{},
		&models.Friend{},
		&models.Relation{},
		&models.Block{},
		&models.Mute{},
		&models.Story{},
		&models.Comment{},
		&models.Reply{},
		&models.StoryLike{},
		&models.CommentLike{},
		&models.ReplyLike{},
		&models.Bookmark{},
		&models.History{},
		&models.Tag{},
		&models.TagFollower{},
		&models.Notification{},
		&models.NotificationOut{},
		&models.NotificationSettings{},
		&models.Connection{},
		&models.AccountActivity{},
	)
}
