package main

import (
	"github.com/luthersystems/sapling/cmd"
)

func main() {
	cmd.Execute()
}
