package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	"github.com/blevesearch/bleve/v2/index/scorch"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/registry"
	"github.com/blevesearch/bleve/v2/search"
	index "github.com/blevesearch/bleve_index_api"

	"github.com/omnishop/omnishop/internal/facet"
)

const (
	// ProductTokenizerName is the registered name of the hyphen-splitting
	// product tokenizer.
	ProductTokenizerName = "product_tokenizer"

	// MarketingStopFilterName is the registered name of the marketing
	// stop-word filter.
	MarketingStopFilterName = "marketing_stop"

	// ProductAnalyzerName is the registered name of the product analyzer.
	ProductAnalyzerName = "product_analyzer"

	// productStopName is the per-mapping stop filter instance carrying the
	// configured word list and minimum token length.
	productStopName = "product_stop"
)

// DefaultMarketingStopWords filters listing boilerplate that carries no
// ranking signal.
var DefaultMarketingStopWords = []string{
	"new", "sale", "best", "hot", "offer", "discount", "free",
	"original", "official", "genuine", "premium", "latest", "combo",
	"exclusive", "buy", "price", "bd", "bangladesh",
	"the", "and", "for", "with", "in", "of", "a", "an", "to",
	"under", "below", "within",
}

func init() {
	_ = registry.RegisterTokenizer(ProductTokenizerName, productTokenizerConstructor)
	_ = registry.RegisterTokenFilter(MarketingStopFilterName, marketingStopFilterConstructor)
}

// BleveLexicalIndex wraps bleve v2 for BM25 keyword search over product
// text. Indexes are in-memory: derived structures are rebuilt wholesale
// from the record store on every corpus load.
type BleveLexicalIndex struct {
	mu     sync.RWMutex
	index  bleve.Index
	config LexicalConfig
	closed bool
}

type bleveDocument struct {
	Content string `json:"content"`
}

// NewBleveLexicalIndex creates an in-memory BM25 index. The scorch backend
// is used even without a path; the memory-only kv backend falls back to
// tf-idf regardless of the mapping's scoring model.
func NewBleveLexicalIndex(config LexicalConfig) (*BleveLexicalIndex, error) {
	indexMapping, err := createIndexMapping(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create index mapping: %w", err)
	}

	idx, err := bleve.NewUsing("", indexMapping, scorch.Name, scorch.Name, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	return &BleveLexicalIndex{
		index:  idx,
		config: config,
	}, nil
}

func createIndexMapping(config LexicalConfig) (*mapping.IndexMappingImpl, error) {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.ScoringModel = index.BM25Scoring

	stopWords := config.StopWords
	if len(stopWords) == 0 {
		stopWords = DefaultMarketingStopWords
	}
	err := indexMapping.AddCustomTokenFilter(productStopName, map[string]interface{}{
		"type":             MarketingStopFilterName,
		"stop_words":       stopWords,
		"min_token_length": config.MinTokenLength,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add stop filter: %w", err)
	}

	err = indexMapping.AddCustomAnalyzer(ProductAnalyzerName, map[string]interface{}{
		"type":      custom.Name,
		"tokenizer": ProductTokenizerName,
		"token_filters": []string{
			lowercase.Name,
			productStopName,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add custom analyzer: %w", err)
	}

	indexMapping.DefaultAnalyzer = ProductAnalyzerName
	return indexMapping, nil
}

// Index adds documents to the index.
func (b *BleveLexicalIndex) Index(ctx context.Context, docs []*Document) error {
	if len(docs) == 0 {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return fmt.Errorf("index is closed")
	}

	batch := b.index.NewBatch()
	for _, doc := range docs {
		if err := batch.Index(doc.ID, bleveDocument{Content: doc.Content}); err != nil {
			return fmt.Errorf("failed to index document %s: %w", doc.ID, err)
		}
	}

	if err := b.index.Batch(batch); err != nil {
		return fmt.Errorf("failed to execute batch: %w", err)
	}
	return nil
}

// Search returns documents matching query, scored by BM25. A blank query
// yields an empty result set, not an error.
func (b *BleveLexicalIndex) Search(ctx context.Context, queryStr string, limit int) ([]*LexicalResult, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return nil, fmt.Errorf("index is closed")
	}

	if strings.TrimSpace(queryStr) == "" {
		return []*LexicalResult{}, nil
	}

	matchQuery := bleve.NewMatchQuery(queryStr)
	matchQuery.SetField("content")

	searchRequest := bleve.NewSearchRequest(matchQuery)
	searchRequest.Size = limit
	searchRequest.IncludeLocations = true

	result, err := b.index.SearchInContext(ctx, searchRequest)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	results := make([]*LexicalResult, 0, len(result.Hits))
	for _, hit := range result.Hits {
		results = append(results, &LexicalResult{
			DocID:        hit.ID,
			Score:        hit.Score,
			MatchedTerms: extractMatchedTerms(hit),
		})
	}
	return results, nil
}

// DocCount returns the number of indexed documents.
func (b *BleveLexicalIndex) DocCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return 0
	}
	count, _ := b.index.DocCount()
	return int(count)
}

// Close closes the index.
func (b *BleveLexicalIndex) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	if b.index != nil {
		return b.index.Close()
	}
	return nil
}

func extractMatchedTerms(hit *search.DocumentMatch) []string {
	terms := make(map[string]struct{})
	for field, locations := range hit.Locations {
		if field == "content" {
			for term := range locations {
				terms[term] = struct{}{}
			}
		}
	}

	result := make([]string, 0, len(terms))
	for term := range terms {
		result = append(result, term)
	}
	sort.Strings(result)
	return result
}

var _ LexicalIndex = (*BleveLexicalIndex)(nil)

func productTokenizerConstructor(config map[string]interface{}, cache *registry.Cache) (analysis.Tokenizer, error) {
	return &bleveProductTokenizer{}, nil
}

// bleveProductTokenizer adapts the shared facet tokenizer to bleve's
// analysis interface. Using one tokenizer for indexing, queries, and brand
// inference keeps their token spaces comparable.
type bleveProductTokenizer struct{}

func (t *bleveProductTokenizer) Tokenize(input []byte) analysis.TokenStream {
	text := string(input)
	tokens := facet.Tokenize(text)

	result := make(analysis.TokenStream, 0, len(tokens))
	pos := 1
	offset := 0

	for _, token := range tokens {
		start := strings.Index(strings.ToLower(text[offset:]), token)
		if start == -1 {
			start = offset
		} else {
			start += offset
		}
		end := start + len(token)

		result = append(result, &analysis.Token{
			Term:     []byte(token),
			Start:    start,
			End:      end,
			Position: pos,
			Type:     analysis.AlphaNumeric,
		})
		pos++
		if end <= len(text) {
			offset = end
		}
	}
	return result
}

func marketingStopFilterConstructor(config map[string]interface{}, cache *registry.Cache) (analysis.TokenFilter, error) {
	words := DefaultMarketingStopWords
	switch raw := config["stop_words"].(type) {
	case []string:
		words = raw
	case []interface{}:
		// The mapping round-trips through JSON when persisted.
		words = make([]string, 0, len(raw))
		for _, w := range raw {
			if s, ok := w.(string); ok {
				words = append(words, s)
			}
		}
	}

	minLen := 1
	switch v := config["min_token_length"].(type) {
	case int:
		if v > 1 {
			minLen = v
		}
	case float64:
		if int(v) > 1 {
			minLen = int(v)
		}
	}

	stop := make(map[string]struct{}, len(words))
	for _, w := range words {
		stop[strings.ToLower(w)] = struct{}{}
	}
	return &bleveMarketingStopFilter{stopWords: stop, minTokenLength: minLen}, nil
}

type bleveMarketingStopFilter struct {
	stopWords      map[string]struct{}
	minTokenLength int
}

func (f *bleveMarketingStopFilter) Filter(input analysis.TokenStream) analysis.TokenStream {
	result := make(analysis.TokenStream, 0, len(input))
	for _, token := range input {
		term := strings.ToLower(string(token.Term))
		if len(term) < f.minTokenLength {
			continue
		}
		if _, isStop := f.stopWords[term]; isStop {
			continue
		}
		result = append(result, token)
	}
	return result
}
