package main

import (
	"github.com/blobfi/staking-engine/cmd"
)

func main() {
	cmd.Execute()
}
