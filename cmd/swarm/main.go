package main

import (
	"github.com/andrescamacho/swarm-go/internal/adapters/cli"
)

func main() {
	cli.Execute()
}
