package main

import (
	"github.com/havona-labs/havona-sapphire/internal/cli"
)

func main() {
	cli.Execute()
}
