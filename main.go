package main

import (
	"github.com/sidkik/pushsync/cmd"
	"github.com/sidkik/pushsync/cmd/util"
)

func main() {
	defer util.HandlePanic()
	cmd.Execute()
}
