package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/avolkovs/accountd/internal/server"
	"github.com/avolkovs/accountd/internal/server/config"
)

func main() {

	// SMTP credentials and overrides may come from a local .env file.
	// A missing file is fine; the environment is used as-is.
	_ = godotenv.Load()

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := server.NewApp(cfg)

	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)

}
