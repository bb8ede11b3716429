package main

import (
	"context"
	"log"
	"os"

	"github.com/grana-app/grana-go/internal/buildinfo"
	"github.com/grana-app/grana-go/internal/client/cli"
	"github.com/grana-app/grana-go/internal/client/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := cli.NewApp(ctx, cfg)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}
	defer app.Close()

	if err := app.Run(ctx); err != nil {
		log.Printf("%v", err)
	}

}
