package translation

import (
	"context"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

const defaultCacheSize = 512

// Cache remembers translations during a batch run, so a word appearing in
// several lookups is only translated once
type Cache struct {
	entries *lru.Cache[string, *TranslationOutput]
}

// NewCache creates a cache holding up to size answers
func NewCache(size int) *Cache {
	if size <= 0 {
		size = defaultCacheSize
	}
	// lru.New only fails for a non-positive size
	entries, _ := lru.New[string, *TranslationOutput](size)
	return &Cache{entries: entries}
}

// Add stores a translation
func (c *Cache) Add(input TranslationInput, output *TranslationOutput) {
	c.entries.Add(cacheKey(input), output)
}

// Get retrieves a translation
func (c *Cache) Get(input TranslationInput) (*TranslationOutput, bool) {
	return c.entries.Get(cacheKey(input))
}

// Len returns the number of cached translations
func (c *Cache) Len() int {
	return c.entries.Len()
}

func cacheKey(input TranslationInput) string {
	return strings.Join([]string{
		input.SourceLanguage,
		strings.Join(input.DestinationLanguages, ","),
		input.Word,
		input.Meaning,
		input.PartOfSpeech,
	}, "\x1f")
}

// CachingTranslator wraps a Translator with a Cache
type CachingTranslator struct {
	next  Translator
	cache *Cache
}

// NewCachingTranslator wraps next. A nil cache gets a default sized one.
func NewCachingTranslator(next Translator, cache *Cache) *CachingTranslator {
	if cache == nil {
		cache = NewCache(0)
	}
	return &CachingTranslator{next: next, cache: cache}
}

// Translate implements Translator
func (t *CachingTranslator) Translate(ctx context.Context, apiURL string, input TranslationInput) (*TranslationOutput, error) {
	if output, ok := t.cache.Get(input); ok {
		return output, nil
	}

	output, err := t.next.Translate(ctx, apiURL, input)
	if err != nil {
		return nil, err
	}

	t.cache.Add(input, output)
	return output, nil
}
