package parley

// SearchConfig controls web-search augmentation on OpenAI-compatible
// endpoints that support it. Fields are sent as extra request body fields.
type SearchConfig struct {
	Enable     bool   `json:"enable_search" yaml:"enable"`
	Engine     string `json:"search_engine,omitempty" yaml:"engine"` // "bing" or "google"
	Depth      int    `json:"search_depth,omitempty" yaml:"depth"`   // 1-3
	Timeout    int    `json:"search_timeout,omitempty" yaml:"timeout"`
	MaxResults int    `json:"search_max_results,omitempty" yaml:"max_results"`
	Filter     string `json:"search_filter,omitempty" yaml:"filter"` // e.g. "site:example.com"
	Language   string `json:"search_language,omitempty" yaml:"language"`
	Region     string `json:"search_region,omitempty" yaml:"region"`
	SafeMode   bool   `json:"search_safe_mode" yaml:"safe_mode"`
	Freshness  string `json:"search_freshness,omitempty" yaml:"freshness"` // "day", "week" or "month"
}

// DefaultSearchConfig returns search enabled through Bing with medium depth,
// five results from the past week, Chinese language and safe mode.
func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		Enable:     true,
		Engine:     "bing",
		Depth:      2,
		Timeout:    30,
		MaxResults: 5,
		Language:   "zh-CN",
		Region:     "CN",
		SafeMode:   true,
		Freshness:  "week",
	}
}

// Merge returns c with every non-zero string and integer field of override applied.
// Enable and SafeMode are left as set on c.
func (c SearchConfig) Merge(override SearchConfig) SearchConfig {
	if override.Engine != "" {
		c.Engine = override.Engine
	}
	if override.Depth != 0 {
		c.Depth = override.Depth
	}
	if override.Timeout != 0 {
		c.Timeout = override.Timeout
	}
	if override.MaxResults != 0 {
		c.MaxResults = override.MaxResults
	}
	if override.Filter != "" {
		c.Filter = override.Filter
	}
	if override.Language != "" {
		c.Language = override.Language
	}
	if override.Region != "" {
		c.Region = override.Region
	}
	if override.Freshness != "" {
		c.Freshness = override.Freshness
	}
	return c
}

// Fields returns the request body fields for the configuration.
// Zero-valued optional fields are omitted.
func (c SearchConfig) Fields() map[string]any {
	fields := map[string]any{
		"enable_search":    c.Enable,
		"search_safe_mode": c.SafeMode,
	}
	set := func(key string, v any, ok bool) {
		if ok {
			fields[key] = v
		}
	}
	set("search_engine", c.Engine, c.Engine != "")
	set("search_depth", c.Depth, c.Depth != 0)
	set("search_timeout", c.Timeout, c.Timeout != 0)
	set("search_max_results", c.MaxResults, c.MaxResults != 0)
	set("search_filter", c.Filter, c.Filter != "")
	set("search_language", c.Language, c.Language != "")
	set("search_region", c.Region, c.Region != "")
	set("search_freshness", c.Freshness, c.Freshness != "")
	return fields
}
