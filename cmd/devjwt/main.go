package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Tiny dev-only JWT minting tool.
//
// It prints an HS256 token carrying the memberId and role claims the API
// expects, signed with JWT_SECRET. Useful for exercising a local server
// without a real identity provider.
func main() {
	memberID := flag.String("member", "dev-member", "memberId claim")
	roles := flag.String("roles", "", "comma-separated role claims (e.g. esar.training)")
	ttl := flag.Duration("ttl", 30*time.Minute, "token lifetime")
	flag.Parse()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET is required")
	}
	issuer := getenv("JWT_ISSUER", "devjwt")
	audience := getenv("JWT_AUDIENCE", "training-api")

	var roleClaims []string
	for _, r := range strings.Split(*roles, ",") {
		if r = strings.TrimSpace(r); r != "" {
			roleClaims = append(roleClaims, r)
		}
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iss":      issuer,
		"aud":      audience,
		"sub":      "dev|" + *memberID,
		"iat":      now.Unix(),
		"exp":      now.Add(*ttl).Unix(),
		"memberId": *memberID,
		"role":     roleClaims,
	})

	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		log.Fatalf("sign token: %v", err)
	}
	fmt.Println(signed)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
