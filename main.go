package main

import (
	"github.com/amterp/palette/internal/cli"
	"github.com/joho/godotenv"
)

func main() {
	// A .env in the working directory may set PALETTE_HOME or PALETTE_PORT.
	_ = godotenv.Load()
	cli.Run()
}
