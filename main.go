package main

import (
	"os"

	"msc/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
