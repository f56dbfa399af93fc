package main

import "github.com/atmaker/n8n-mcp-server/cmd"

// version is injected at build time via:
//
//	go build -ldflags "-X main.version=v1.2.3"
var version = "dev"

func main() {
	cmd.SetVersion(version)
	cmd.Execute()
}
