package corpus

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"
)

// ParserConfig controls block parsing policy.
type ParserConfig struct {
	PricePolicy       PricePolicy
	MinPlausiblePrice float64
}

// DefaultParserConfig returns the documented defaults.
func DefaultParserConfig() ParserConfig {
	return ParserConfig{
		PricePolicy:       PolicyFirstAboveThreshold,
		MinPlausiblePrice: DefaultMinPlausiblePrice,
	}
}

// Parser turns raw markdown corpus text into ProductRecords.
type Parser struct {
	config ParserConfig
	logger *slog.Logger
}

// ParserOption configures a Parser.
type ParserOption func(*Parser)

// WithParserLogger sets the logger used for skip diagnostics.
func WithParserLogger(logger *slog.Logger) ParserOption {
	return func(p *Parser) {
		p.logger = logger
	}
}

// NewParser creates a Parser with the given config.
func NewParser(config ParserConfig, opts ...ParserOption) *Parser {
	if config.PricePolicy == "" {
		config.PricePolicy = PolicyFirstAboveThreshold
	}
	if config.MinPlausiblePrice <= 0 {
		config.MinPlausiblePrice = DefaultMinPlausiblePrice
	}
	p := &Parser{
		config: config,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var (
	separatorRe = regexp.MustCompile(`(?m)^\s*---\s*$`)
	// headingStartRe anchors the fallback splitter for corpora without
	// reliable separator lines: blocks run from one ## heading to the
	// next, sliced by match offset because RE2 has no lookahead.
	headingStartRe = regexp.MustCompile(`(?m)^## `)

	titleRe  = regexp.MustCompile(`(?m)^#{1,3}\s+(.+?)\s*$`)
	docIDRe  = regexp.MustCompile(`(?mi)^\*\*DocID:\*\*\s*` + "`?" + `([^\s` + "`" + `]+)` + "`?")
	fieldRes = map[string]*regexp.Regexp{
		"source":   regexp.MustCompile(`(?mi)^\*\*Source:\*\*\s*(.+?)\s*$`),
		"category": regexp.MustCompile(`(?mi)^\*\*Category:\*\*\s*(.+?)\s*$`),
		"brand":    regexp.MustCompile(`(?mi)^\*\*Brand:\*\*\s*(.+?)\s*$`),
		"price":    regexp.MustCompile(`(?mi)^\*\*Price:\*\*\s*(.+?)\s*$`),
		"url":      regexp.MustCompile(`(?mi)^\*\*URL:\*\*\s*(.+?)\s*$`),
		"rating":   regexp.MustCompile(`(?mi)^\*\*Rating:\*\*\s*(.+?)\s*$`),
	}
	ratingRe = regexp.MustCompile(`([0-5](?:\.\d+)?)\s*/\s*5(?:\s*\((\d+)\s*ratings?\))?`)
)

// Parse converts raw corpus text into records, preserving source-document
// order. Malformed blocks are skipped and counted; one bad block never fails
// the whole parse.
func (p *Parser) Parse(raw string) ([]ProductRecord, int) {
	blocks := p.split(raw)

	records := make([]ProductRecord, 0, len(blocks))
	seen := make(map[string]struct{}, len(blocks))
	skipped := 0

	for _, block := range blocks {
		rec, ok := p.parseBlock(block)
		if !ok {
			skipped++
			continue
		}
		if _, dup := seen[rec.ID]; dup {
			rec.ID = DisambiguateID(rec.ID, block)
		}
		seen[rec.ID] = struct{}{}
		records = append(records, rec)
	}

	if skipped > 0 {
		p.logger.Warn("corpus_blocks_skipped",
			slog.Int("skipped", skipped),
			slog.Int("parsed", len(records)))
	}
	return records, skipped
}

// split produces candidate record blocks. Separator lines are the primary
// delimiter; when a corpus has none, fall back to heading-anchored blocks.
func (p *Parser) split(raw string) []string {
	parts := separatorRe.Split(raw, -1)
	blocks := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) != "" {
			blocks = append(blocks, part)
		}
	}
	if len(blocks) > 1 {
		return blocks
	}
	if starts := headingStartRe.FindAllStringIndex(raw, -1); len(starts) > 1 {
		headed := make([]string, 0, len(starts))
		for i, loc := range starts {
			end := len(raw)
			if i+1 < len(starts) {
				end = starts[i+1][0]
			}
			headed = append(headed, raw[loc[0]:end])
		}
		return headed
	}
	return blocks
}

// parseBlock extracts one record. Field order within a block is not
// guaranteed, so every field is located by its own tag.
func (p *Parser) parseBlock(block string) (ProductRecord, bool) {
	title := ""
	if m := titleRe.FindStringSubmatch(block); m != nil {
		title = strings.TrimSpace(m[1])
	}
	if title == "" {
		return ProductRecord{}, false
	}

	rec := ProductRecord{
		Title:   title,
		RawText: strings.TrimSpace(block),
	}

	fields := make(map[string]string, len(fieldRes))
	for name, re := range fieldRes {
		if m := re.FindStringSubmatch(block); m != nil {
			fields[name] = strings.TrimSpace(m[1])
		}
	}

	rec.Source = fields["source"]
	rec.URL = NormalizeURL(fields["url"], rec.Source)

	rec.Category = NormalizeFacet(fields["category"])
	if rec.Category == "" {
		rec.Category = CategoryGeneral
	}

	rec.Brand = NormalizeFacet(fields["brand"])
	rec.Price = ParsePrice(fields["price"], p.config.PricePolicy, p.config.MinPlausiblePrice)
	rec.Rating = parseRating(fields["rating"])

	if m := docIDRe.FindStringSubmatch(block); m != nil {
		rec.ID = strings.TrimSpace(m[1])
	}
	if rec.ID == "" {
		rec.ID = DeriveID(rec.Title, rec.URL)
	}

	return rec, true
}

func parseRating(text string) *Rating {
	m := ratingRe.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	avg, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil
	}
	r := &Rating{Average: avg}
	if m[2] != "" {
		r.Count, _ = strconv.Atoi(m[2])
	}
	return r
}
