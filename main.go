package main

import (
	"os"

	"posthaste/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
