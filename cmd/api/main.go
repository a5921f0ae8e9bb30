package main

import (
	"os"

	"github.com/shopspring/decimal"
)

func main() {
	// valores monetários saem como número no JSON
	decimal.MarshalJSONWithoutQuotes = true

	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
