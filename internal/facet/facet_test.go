package facet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TS01: Hyphen-aware tokenization
func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"sku hyphen splits", "RTX-4060 Graphics", []string{"rtx", "4060", "graphics"}},
		{"case folding", "ASUS ROG Strix", []string{"asus", "rog", "strix"}},
		{"punctuation stripped", "Core i7 (12th Gen)", []string{"core", "i7", "12th", "gen"}},
		{"currency glyph dropped", "Price 95,500৳", []string{"price", "95", "500"}},
		{"empty", "  ", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokenize(tt.text))
		})
	}
}

// TS02: Brand resolution order
func TestInferBrand(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		explicit string
		want     string
	}{
		{"explicit tag wins", "Some Random Gadget", "Sony", "sony"},
		{"placeholder tag falls through", "Samsung Galaxy S21", "Generic", "samsung"},
		{"known brand scan", "Gaming Laptop ASUS ROG", "", "asus"},
		{"hyphenated brand token", "TP-Link Archer C6 Router", "", "tp"},
		{"first token fallback", "Walkonix Trail Shoes", "", "walkonix"},
		{"stop word first token rejected", "New Wireless Charger", "", "generic"},
		{"numeric first token rejected", "4060 Ti Graphics Card", "", "generic"},
		{"short first token rejected", "X1 Carbon Dock", "", "generic"},
		{"empty title", "", "", "generic"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InferBrand(tt.title, tt.explicit))
		})
	}
}

// TS03: Deterministic electronics spec extraction
func TestInfer_Electronics(t *testing.T) {
	// Given: a smartphone title with a RAM marker
	// When: inferring twice
	first := Infer("Samsung Galaxy S21 8GB", "smartphones", "")
	second := Infer("Samsung Galaxy S21 8GB", "smartphones", "")

	// Then: output is identical across runs
	require.Equal(t, first, second)
	assert.Equal(t, "samsung", first.Brand)
	assert.Equal(t, "8GB", first.Specs["RAM"])
}

// TS04: Full laptop title hits RAM, storage and CPU rules
func TestInfer_LaptopSpecs(t *testing.T) {
	f := Infer("Lenovo LOQ Core i7 16GB 512GB SSD RTX 3050", "gaming laptops", "")

	assert.Equal(t, "lenovo", f.Brand)
	assert.Equal(t, "16GB", f.Specs["RAM"])
	assert.Equal(t, "512GB SSD", f.Specs["Storage"])
	assert.Equal(t, "Core i7", f.Specs["CPU"])
}

// TS05: CPU rule table is first-match-wins per facet
func TestInfer_CPUFamilies(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"ASUS ROG Ryzen 7 16GB", "Ryzen 7"},
		{"MacBook Air Apple M2 8GB", "Apple M2"},
		{"Xiaomi Pad Snapdragon 870", "Snapdragon"},
		{"HP Pavilion Core i5 8GB", "Core i5"},
	}
	for _, tt := range tests {
		f := Infer(tt.title, "laptops", "")
		assert.Equal(t, tt.want, f.Specs["CPU"], tt.title)
	}
}

// TS06: Apparel categories use material and color vocabularies
func TestInfer_Apparel(t *testing.T) {
	f := Infer("Premium Cotton Panjabi Navy Blue", "men's fashion", "Aarong")

	assert.Equal(t, "aarong", f.Brand)
	assert.Equal(t, "cotton", f.Specs["Material"])
	assert.Equal(t, "navy", f.Specs["Color"])
}

// TS06b: The earliest color in the title wins, not the vocabulary order
func TestInfer_ColorTitleOrder(t *testing.T) {
	f := Infer("Khaki Green Cargo Pant", "men's fashion", "")

	assert.Equal(t, "khaki", f.Specs["Color"])
}

// TS07: Unmatched categories yield an empty facet map
func TestInfer_UnknownCategory(t *testing.T) {
	f := Infer("Organic Honey 500g Jar", "groceries", "")

	assert.Empty(t, f.Specs)
	assert.Equal(t, "organic", f.Brand)
}
