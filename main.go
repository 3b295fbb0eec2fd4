package main

import (
	"os"

	"github.com/gestao-obras/gestao-obras/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
