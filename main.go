package main

import (
	_ "time/tzdata" // Run locations resolve without system zoneinfo.

	_ "github.com/joho/godotenv/autoload" // Autoload .env file.

	"github.com/ncss/coffeerun/cmd/app"
)

// @title          coffeerun API
// @description    Tracks office coffee runs, orders and who owes whom.
//
// @contact.name   NCSS tutors
//
// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer token
func main() {
	if err := app.Start(); err != nil {
		panic(err)
	}
}
