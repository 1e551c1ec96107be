package main

import (
	"os"

	"tg-miniapp-backend/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
