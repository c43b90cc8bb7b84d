package main

import (
	_ "github.com/joho/godotenv/autoload" // Autoload .env file.

	"github.com/ieee-synapse/synapse-api/cmd/app"
)

// @title          Synapse API
// @version        1.0
// @description    Event registration and team formation across academic sessions.
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer token
//
// @externalDocs.description  OpenAPI
// @externalDocs.url          https://swagger.io/resources/open-api/
func main() {
	if err := app.Start(); err != nil {
		panic(err)
	}
}
