package main

//go:generate swag init --dir ../../ --generalInfo cmd/bookshelf/main.go --output ../../docs --outputTypes go

import (
	"context"
	"os"
)

// @title           Bookshelf API
// @version         1.0
// @description     User accounts, bearer tokens and favorite books for the bookshelf catalog.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
