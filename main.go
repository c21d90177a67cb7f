package main

import (
	"meetup-api/core/logger"
	"meetup-api/core/server"
)

// @title Meetup API
// @version 1.0
// @description Backend for a social event meetup platform: events, participation, reminders, reviews and chat presence.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:7070
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token. Example: "Bearer {token}"

func main() {
	if err := server.Run(); err != nil {
		logger.Error("run server error", err)
	}
}
