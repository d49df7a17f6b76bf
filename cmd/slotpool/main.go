package main

import (
	"github.com/onflow/flow-slotpool/cmd/slotpool/cmd"
)

func main() {
	cmd.Execute()
}
