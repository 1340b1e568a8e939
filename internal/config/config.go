// Package config loads and filters the per-source crawl configuration. The
// configuration file format is whatever Viper can read; this package only
// cares about the decoded shape.
package config

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/ozanunsal/hikmet-crawler/internal/record"
)

// Defaults applied when a source omits kind-specific metadata.
const (
	DefaultAuthor     = "Nazim Hikmet"
	DefaultLang       = "tr"
	DefaultLicense    = "unknown"
	DefaultCollection = "Nazim Hikmet PDF Collection"
)

// Paging controls index pagination for detail-page sources.
type Paging struct {
	MaxPages int    `mapstructure:"max_pages"`
	NextCSS  string `mapstructure:"next_css"`
}

// Fields holds the per-card selectors used by the news-archive crawler.
type Fields struct {
	TitleCSS string `mapstructure:"title_css"`
	URLAttr  string `mapstructure:"url_attr"`
	DateCSS  string `mapstructure:"date_css"`
	FullCSS  string `mapstructure:"full_css"`
}

// Extract bundles the CSS selectors and extraction options of a source.
type Extract struct {
	IndexCardCSS  string `mapstructure:"index_card_css"`
	DetailLinkCSS string `mapstructure:"detail_link_css"`
	TitleCSS      string `mapstructure:"title_css"`
	FullCSS       string `mapstructure:"full_css"`
	CardCSS       string `mapstructure:"card_css"`
	Fields        Fields `mapstructure:"fields"`
	SectionCSS    string `mapstructure:"section_css"`
	YearRegex     string `mapstructure:"year_regex"`
	Collection    string `mapstructure:"collection"`
}

// Source describes one configured crawl source.
type Source struct {
	Name string      `mapstructure:"name"`
	Kind record.Kind `mapstructure:"kind"`

	Base    string   `mapstructure:"base"`
	ListURL string   `mapstructure:"list_url"`
	URL     string   `mapstructure:"url"`
	Seeds   []string `mapstructure:"seeds"`

	SafeMode *bool `mapstructure:"safe_mode"`
	Render   bool  `mapstructure:"render"`

	Author       string `mapstructure:"author"`
	Lang         string `mapstructure:"lang"`
	Collection   string `mapstructure:"collection"`
	DocumentType string `mapstructure:"document_type"`
	WorkType     string `mapstructure:"work_type"`

	Extract Extract `mapstructure:"extract"`
	Paging  Paging  `mapstructure:"paging"`

	FetchTimeout  time.Duration `mapstructure:"fetch_timeout"`
	FetchRetries  int           `mapstructure:"fetch_retries"`
	BackoffBase   time.Duration `mapstructure:"fetch_backoff_base"`
	BackoffFactor float64       `mapstructure:"fetch_backoff_factor"`

	VerifySSL         *bool `mapstructure:"verify_ssl"`
	LegacyTLS         bool  `mapstructure:"legacy_tls"`
	AllowHTTPFallback bool  `mapstructure:"allow_http_fallback"`
}

// AuthorOrDefault returns the configured author or the pipeline default.
func (s Source) AuthorOrDefault() string {
	if s.Author != "" {
		return s.Author
	}
	return DefaultAuthor
}

// SkipTLSVerify reports whether certificate verification is disabled for this
// source. Verification stays on unless explicitly turned off.
func (s Source) SkipTLSVerify() bool {
	return s.VerifySSL != nil && !*s.VerifySSL
}

// File is the decoded top-level configuration.
type File struct {
	SafeMode bool     `mapstructure:"safe_mode"`
	Sources  []Source `mapstructure:"sources"`
}

// Load decodes the source list from the given Viper instance.
func Load(v *viper.Viper) (File, error) {
	var file File
	if err := v.Unmarshal(&file); err != nil {
		return File{}, fmt.Errorf("decode sources config: %w", err)
	}
	return file, nil
}

// Select filters sources by name. An empty name list selects everything;
// names that match nothing produce an error listing each missing name.
func Select(sources []Source, names []string) ([]Source, error) {
	if len(names) == 0 {
		return sources, nil
	}
	requested := make(map[string]bool, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name != "" {
			requested[name] = false
		}
	}
	var selected []Source
	for _, source := range sources {
		if _, ok := requested[source.Name]; ok {
			requested[source.Name] = true
			selected = append(selected, source)
		}
	}
	var missing []string
	for name, found := range requested {
		if !found {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("sources not found in configuration: %s", strings.Join(missing, ", "))
	}
	return selected, nil
}
