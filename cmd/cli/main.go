package main

import (
	"github.com/mchmarny/aipulse/pkg/cli"
)

func main() {
	cli.Execute()
}
