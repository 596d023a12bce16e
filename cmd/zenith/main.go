package main

import "github.com/yousefammmar/zenith-flow/internal/cli"

// Version information set via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.Execute(cli.Build{Version: version, Commit: commit, Date: date})
}
