// Command frame scaffolds controllers and runs database migrations.
//
//	frame make:controller Posts
//	frame migrate up --dir migrations
package main

import "github.com/dmitrymomot/frame/cli"

func main() {
	cli.Execute()
}
