package main

import (
	"log"

	_ "teamtodo/docs"
	"teamtodo/internal/config"
	"teamtodo/internal/server"
)

// @title           Team Todo API
// @version         1.0
// @description     Role-based task management for teams.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @schemes http
func main() {
	cfg := config.Load()

	s, err := server.Init(cfg)
	if err != nil {
		log.Fatalf("Server initialization failed: %v", err)
	}

	s.Run()
}
