//go:build ignore

// Package main generates a synthetic product corpus for benchmarking.
// Usage: go run scripts/generate-test-corpus.go -products 5000 -output testdata/bench-corpus.md
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
)

var (
	numProducts = flag.Int("products", 5000, "Number of products to generate")
	outputPath  = flag.String("output", "testdata/bench-corpus.md", "Output corpus file")
	seed        = flag.Int64("seed", 42, "Random seed for reproducibility")
)

var brands = []string{
	"ASUS", "Lenovo", "HP", "Dell", "Acer", "MSI", "Apple",
	"Samsung", "Xiaomi", "Realme", "Walton", "Logitech", "Razer",
}

var categoryNouns = map[string][]string{
	"Gaming Laptops":  {"ROG Strix", "LOQ 15", "Victus 16", "Katana GF66", "Nitro V"},
	"Laptops":         {"VivoBook 15", "IdeaPad Slim 3", "Inspiron 14", "Aspire Lite"},
	"Smartphones":     {"Galaxy A16", "Redmi Note 13", "Narzo 60", "Primo H10"},
	"Keyboards":       {"K120", "MX Keys", "Huntsman Mini", "G213 Prodigy"},
	"Monitors":        {"Odyssey G4", "UltraSharp U2422", "ProArt PA248"},
	"Men's T-Shirts":  {"Cotton Crew Tee", "Polo Classic", "Raglan Henley"},
	"Women's Dresses": {"Floral Maxi", "Linen Wrap", "Chiffon Gown"},
}

var cpus = []string{"Ryzen 5 7535HS", "Ryzen 7 7435HS", "Core i5-12450H", "Core i7-13620H"}
var rams = []string{"8GB", "16GB", "32GB"}
var storages = []string{"512GB SSD", "1TB SSD", "256GB SSD"}

func main() {
	flag.Parse()
	rng := rand.New(rand.NewSource(*seed))

	if err := os.MkdirAll(filepath.Dir(*outputPath), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "mkdir: %v\n", err)
		os.Exit(1)
	}

	categories := make([]string, 0, len(categoryNouns))
	for c := range categoryNouns {
		categories = append(categories, c)
	}

	var b strings.Builder
	for i := 0; i < *numProducts; i++ {
		source := "StarTech"
		prefix := "st"
		if rng.Intn(2) == 1 {
			source = "Daraz"
			prefix = "dz"
		}

		category := categories[rng.Intn(len(categories))]
		brand := brands[rng.Intn(len(brands))]
		model := categoryNouns[category][rng.Intn(len(categoryNouns[category]))]

		title := fmt.Sprintf("%s %s", brand, model)
		if strings.Contains(category, "Laptop") {
			title = fmt.Sprintf("%s %s %s %s %s",
				brand, model,
				cpus[rng.Intn(len(cpus))],
				rams[rng.Intn(len(rams))],
				storages[rng.Intn(len(storages))])
		}

		price := 500 + rng.Intn(250000)

		fmt.Fprintf(&b, "## %s\n", title)
		fmt.Fprintf(&b, "**DocID:** `%s-%06d`\n", prefix, i)
		fmt.Fprintf(&b, "**Source:** %s\n", source)
		fmt.Fprintf(&b, "**Category:** %s\n", category)
		fmt.Fprintf(&b, "**Price:** %s৳\n", groupPrice(price))
		if rng.Intn(3) == 0 {
			fmt.Fprintf(&b, "**Rating:** %.1f/5 (%d ratings)\n", 2+rng.Float64()*3, 1+rng.Intn(500))
		}
		b.WriteString("---\n")
	}

	if err := os.WriteFile(*outputPath, []byte(b.String()), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "write: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generated %d products in %s\n", *numProducts, *outputPath)
}

// groupPrice renders an integer price with comma thousands separators.
func groupPrice(price int) string {
	s := fmt.Sprintf("%d", price)
	var b strings.Builder
	for i, d := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	return b.String()
}
