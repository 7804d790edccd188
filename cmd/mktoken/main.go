// Package main mints development JWTs for exercising the API locally. The
// auth subsystem issues real tokens in every deployed environment.
package main

import (
	"flag"
	"fmt"
	"log"
	"strconv"
	"time"

	"concierge/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func main() {
	userID := flag.Uint("user", 1, "Subject user ID")
	ttl := flag.Duration("ttl", 24*time.Hour, "Token lifetime")
	secret := flag.String("secret", "", "Signing secret (defaults to JWT_SECRET from config)")
	flag.Parse()

	signingSecret := *secret
	if signingSecret == "" {
		cfg, err := config.LoadConfig()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
		signingSecret = cfg.JWTSecret
	}
	if signingSecret == "" {
		log.Fatal("no signing secret available; set JWT_SECRET or pass -secret")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(*userID), 10),
		"iss": "concierge-api",
		"aud": "concierge-client",
		"jti": uuid.NewString(),
		"iat": now.Unix(),
		"exp": now.Add(*ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(signingSecret))
	if err != nil {
		log.Fatalf("Failed to sign token: %v", err)
	}

	fmt.Println(signed)
}
