// Package main provides the entry point for the adminasync CLI tool.
package main

import "github.com/moneyforward-i/admina-sso-sync/cmd/adminasync/cmd"

// Version information populated by goreleaser.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cmd.Execute(version, commit, date)
}
