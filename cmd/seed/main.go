package main

import (
	"context"
	"flag"
	"log"

	"github.com/AlonaKolesneva/user-service-api/internal/auth"
	"github.com/AlonaKolesneva/user-service-api/internal/config"
	"github.com/AlonaKolesneva/user-service-api/internal/db"
	"github.com/AlonaKolesneva/user-service-api/internal/model"
	"github.com/AlonaKolesneva/user-service-api/internal/repository"
)

// Test records carry the is_test flag so they can be swept without touching
// real accounts.
var testUsers = []struct {
	email    string
	password string
}{
	{email: "test@user.com", password: "password"},
}

func main() {
	cleanup := flag.Bool("cleanup", false, "delete all test records instead of seeding")
	flag.Parse()

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := gormDB.AutoMigrate(&model.User{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	repo := repository.NewUserRepository(gormDB)
	ctx := context.Background()

	if *cleanup {
		swept, err := repo.DeleteTestUsers(ctx)
		if err != nil {
			log.Fatalf("Failed to delete test users: %v", err)
		}
		log.Printf("Deleted %d test users", swept)
		return
	}

	hasher := auth.NewPasswordHasher()
	seeded := 0
	for _, tu := range testUsers {
		hashed, err := hasher.Hash(tu.password)
		if err != nil {
			log.Fatalf("Failed to hash password: %v", err)
		}
		user := &model.User{
			Email:        tu.email,
			PasswordHash: hashed,
			IsTest:       true,
		}
		if err := repo.Create(ctx, user); err != nil {
			log.Printf("Skipping %s: %v", tu.email, err)
			continue
		}
		seeded++
	}

	log.Printf("Seed completed: %d test users created", seeded)
}
