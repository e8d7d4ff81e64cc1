package main

import (
	"github.com/corray333/backend-labs/store/internal/app"
	"github.com/corray333/backend-labs/store/internal/config"
)

//	@title						Store Service API
//	@version					1.0
//	@description				E-commerce backend: accounts, catalog, carts and orders.
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
func main() {
	config.MustInit()
	app.MustNewApp().Run()
}
