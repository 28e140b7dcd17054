package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"tyrehub/catalog/internal/auth"
	"tyrehub/catalog/internal/config"
	"tyrehub/catalog/internal/constants"
)

func main() {
	_ = godotenv.Load()

	subject := flag.String("sub", "ops", "token subject")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	secret := config.Getenv("ADMIN_JWT_SECRET", "")
	if secret == "" {
		log.Fatal("ADMIN_JWT_SECRET is not set")
	}

	token, err := auth.NewTokenSigner([]byte(secret)).Issue(*subject, constants.RoleAdmin, *ttl)
	if err != nil {
		log.Fatalf("issue token: %v", err)
	}

	fmt.Println(token)
}
