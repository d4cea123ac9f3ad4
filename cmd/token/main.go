package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"codeberg.org/algopatterns/catalog/internal/auth"
	"codeberg.org/algopatterns/catalog/internal/config"
	"codeberg.org/algopatterns/catalog/internal/logger"
)

// mints an API token for /api/v1/ask, signed with JWT_SECRET
func main() {
	flags := config.ParseTokenFlags(os.Args[1:])

	if err := godotenv.Load(); err != nil {
		logger.Debug(".env file not found, using process environment")
	}

	issuer, err := auth.NewIssuer(os.Getenv("JWT_SECRET"))
	if err != nil {
		logger.FatalErr(err, "failed to create token issuer")
	}

	token, err := issuer.GenerateJWT(flags.Subject, flags.TTL)
	if err != nil {
		logger.FatalErr(err, "failed to sign token")
	}

	logger.Info("token minted", "subject", flags.Subject, "ttl", flags.TTL)

	fmt.Println(token)
}
