package main

import (
	"github.com/rfxtrx/rfxtrx-gateway/cmd/rfxtrx-gateway/cmd"
)

// set by the compiler
var version string

func main() {
	cmd.Execute(version)
}
