package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	if err := newRootCommand(os.Stdout).Execute(); err != nil {
		log.Fatal(err)
	}
}
