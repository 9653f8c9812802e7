package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"mepapp/calltrack/internal/auth"
	"mepapp/calltrack/internal/constants"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

func main() {
	dsn := flag.String("dsn", os.Getenv("DATABASE_URL"), "postgres connection string")
	secret := flag.String("secret", os.Getenv("JWT_SECRET"), "JWT signing secret")
	name := flag.String("name", "", "staff member name")
	phone := flag.String("phone", "", "staff member phone number (unique)")
	role := flag.String("role", string(constants.RoleStaff), "STAFF or ADMIN")
	ttl := flag.Duration("ttl", 30*24*time.Hour, "token lifetime")
	flag.Parse()

	if *dsn == "" || *secret == "" || *phone == "" {
		log.Fatal("dsn, secret and phone are required")
	}
	r := constants.Role(*role)
	if r != constants.RoleStaff && r != constants.RoleAdmin {
		log.Fatalf("unknown role %q", *role)
	}

	db, err := sql.Open("postgres", *dsn)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	// Reuses the row when the phone number is already registered.
	var id string
	err = db.QueryRow(`
		INSERT INTO users (id, name, phone, role, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		ON CONFLICT (phone) DO UPDATE SET role = EXCLUDED.role, updated_at = NOW()
		RETURNING id`,
		uuid.New().String(), *name, *phone, r, constants.UserStatusActive,
	).Scan(&id)
	if err != nil {
		log.Fatalf("upsert user: %v", err)
	}

	token, err := auth.IssueToken([]byte(*secret), id, r, *ttl)
	if err != nil {
		log.Fatalf("issue token: %v", err)
	}

	fmt.Println("Staff ID:", id)
	fmt.Println("Token:", token)
}
