// Command devtoken mints an access token for local testing. Accounts and
// login live in another service; this stands in for it during development.
package main

import (
	"flag"
	"fmt"
	"log"

	"sewa-backend/internal/config"
	"sewa-backend/internal/security"
)

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	userID := flag.Int("user", 0, "User id to issue the token for")
	email := flag.String("email", "", "Optional e-mail claim")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *userID <= 0 {
		log.Fatalf("-user must be a positive user id")
	}

	tm := security.NewTokenManager(cfg.JWT.Secret, cfg.AccessTokenTTL())
	token, err := tm.GenerateAccessToken(int32(*userID), *email)
	if err != nil {
		log.Fatalf("Failed to generate token: %v", err)
	}
	fmt.Println(token)
}
