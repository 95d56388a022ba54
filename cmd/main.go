// cmd/main.go
package main

import (
	"farm-ledger-api/app"
)

// @title           Farm Ledger API
// @version         1.0
// @description     Back-office banking API for the farmer-management system.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /
func main() {
	app.Run()
}
