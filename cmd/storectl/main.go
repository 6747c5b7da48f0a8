package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/storefront/internal/storectl"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	if err := storectl.NewRootCmd(os.Stdin, os.Stdout).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
