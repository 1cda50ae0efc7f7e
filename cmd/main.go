// cmd/main.go
package main

import (
	"go-social-api/app"
)

// @title           Go-Social API
// @version         1.0
// @description     A social CRUD API (users, posts, likes, follows) with cookie-based refresh token authentication.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app.Run()
}
