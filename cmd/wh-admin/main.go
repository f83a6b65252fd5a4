package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"
)

func main() {
	time.Local = time.UTC

	app := &cli.App{
		Name:  "wh-admin",
		Usage: "warehouse administration tasks",
		Commands: []*cli.Command{
			migrateCommand(),
			createUserCommand(),
		},
	}

	if err := app.RunContext(context.Background(), os.Args); err != nil {
		fmt.Printf("error running admin application: %v\n", err)
		os.Exit(1)
	}
}
