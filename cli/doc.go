// Package cli provides the frame command line: controller scaffolding,
// goose migrations and, when given an application factory, serve and
// routes.
//
// The stand-alone binary in cmd/frame has make:controller and migrate.
// Projects embed the package in their own main to get serve and routes.
package cli
