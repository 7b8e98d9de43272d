package main

import (
	"os"

	"github.com/Irkutsk-Karas/HR-Avatar/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
