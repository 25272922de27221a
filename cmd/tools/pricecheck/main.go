package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/noah-isme/safari-quote/internal/catalog"
	"github.com/noah-isme/safari-quote/internal/pricing"
	"github.com/noah-isme/safari-quote/internal/trip"
)

// pricecheck prices a draft against a catalog without a running server or a
// database. Useful for eyeballing a quote while editing fixture files.
func main() {
	catalogPath := flag.String("catalog", "", "path to a JSON array of catalog items")
	draftPath := flag.String("draft", "", "path to a JSON trip draft")
	taxBps := flag.Int("tax-bps", 0, "tax rate in basis points")
	asJSON := flag.Bool("json", false, "emit the raw pricing result as JSON")
	flag.Parse()

	if *catalogPath == "" || *draftPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	snapshot, err := loadCatalog(*catalogPath)
	if err != nil {
		log.Fatalf("load catalog: %v", err)
	}
	draft, err := loadDraft(*draftPath)
	if err != nil {
		log.Fatalf("load draft: %v", err)
	}

	result := pricing.Calculate(draft, snapshot)

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			log.Fatalf("encode result: %v", err)
		}
		return
	}

	for _, line := range result.Lines {
		fmt.Printf("day %d  %-12s %-32s %10s  %s\n",
			line.Day, line.Category, line.ItemName,
			pricing.FormatAmount(line.Total), line.Explanation)
	}
	fmt.Printf("\ngrand total      %s\n", pricing.FormatAmount(result.GrandTotal))
	fmt.Printf("per person       %s\n", pricing.FormatAmount(result.PerPersonTotal))
	if *taxBps > 0 {
		tax := pricing.Tax(result.GrandTotal, *taxBps)
		fmt.Printf("tax (%d bps)    %s\n", *taxBps, pricing.FormatAmount(tax))
		fmt.Printf("total with tax   %s\n", pricing.FormatAmount(result.GrandTotal+tax))
	}
}

func loadCatalog(path string) (*catalog.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var items []catalog.Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return catalog.NewSnapshot(items), nil
}

func loadDraft(path string) (trip.Draft, error) {
	var draft trip.Draft
	data, err := os.ReadFile(path)
	if err != nil {
		return draft, err
	}
	if err := json.Unmarshal(data, &draft); err != nil {
		return draft, fmt.Errorf("parse %s: %w", path, err)
	}
	return draft, nil
}
