package main

import (
	"context"
	"log"

	"github.com/dmitrijs2005/storefront/internal/admin/cli"
	"github.com/dmitrijs2005/storefront/internal/server/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := cli.NewApp(ctx, cfg)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
