// Command example is a contacts book built on frame.
//
// Run it from this directory so views/ and .env resolve:
//
//	cp .env.example .env
//	go run . migrate
//	go run . routes
//	go run . serve --addr :3000
package main

import (
	"embed"
	"io/fs"

	"github.com/dmitrymomot/frame/cli"
)

//go:embed migrations/*.sql
var migrations embed.FS

func main() {
	sub, err := fs.Sub(migrations, "migrations")
	if err != nil {
		panic(err)
	}

	cli.Execute(
		cli.WithName("example"),
		cli.WithApp(build),
		cli.WithMigrations(sub),
	)
}
