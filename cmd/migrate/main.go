package main

import (
	"log"
	"os"

	"krackenx-chat-be/internal/entity"
	"krackenx-chat-be/internal/model"
	"krackenx-chat-be/pkg/database"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	color.Cyan("Starting GORM Migration...")

	// 3. Pre-Migration: Enums (AutoMigrate does not manage these)
	color.Cyan("Step 1: Setting up Enums...")

	setupSQL := []string{
		`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'room_type') THEN CREATE TYPE room_type AS ENUM ('general', 'direct'); END IF; END $$;`,
		`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'friend_status') THEN CREATE TYPE friend_status AS ENUM ('pending', 'accepted', 'declined'); END IF; END $$;`,
	}

	for _, sql := range setupSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute setup SQL: %v. Continuing...", err)
		}
	}

	// 4. AutoMigrate All Models
	color.Cyan("Step 2: Running AutoMigrate...")

	models := []interface{}{
		&model.User{},
		&model.EmailVerificationToken{},
		&model.ChatRoom{},
		&model.ChatRoomParticipant{},
		&model.Message{},
		&model.Friend{},
		&model.FriendRequest{},
		&model.SystemLog{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		color.Red("AutoMigrate failed: %v", err)
		os.Exit(1)
	}

	// 5. Seed the General room. Every user is joined to it on first
	// socket authentication, so it must exist with a stable id.
	color.Cyan("Step 3: Seeding General room...")
	if err := seedGeneralRoom(db); err != nil {
		color.Red("Seeding failed: %v", err)
		os.Exit(1)
	}

	color.Green("✅ Migration completed successfully")
}

func seedGeneralRoom(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.ChatRoom{}).Where("id = ?", entity.GeneralRoomID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		color.Yellow("General room already present, skipping")
		return nil
	}

	general := &model.ChatRoom{
		Id:       entity.GeneralRoomID,
		Name:     "General",
		RoomType: string(entity.RoomTypeGeneral),
	}
	if err := db.Create(general).Error; err != nil {
		return err
	}

	// Keep the sequence ahead of the seeded id.
	return db.Exec(`SELECT setval(pg_get_serial_sequence('chat_rooms', 'id'), (SELECT MAX(id) FROM chat_rooms))`).Error
}
