package harvest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"regexp"
)

// Config is the immutable set of parameters for one crawl run.
// The JSON field names match the configuration file format.
type Config struct {
	URL            string `json:"url"`
	Match          string `json:"match"`
	Selector       string `json:"selector"`
	MaxPages       int    `json:"maxPagesToCrawl"`
	OutputFileName string `json:"outputFileName"`
}

// LoadConfig decodes a JSON configuration object from r.
// Unknown fields are rejected so that typos surface early.
func LoadConfig(r io.Reader) (*Config, error) {
	var cfg Config
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return nil, Errorf(EINVALID, "invalid config: %v", err)
	}
	return &cfg, nil
}

// Validate returns an error if the configuration contains invalid fields.
func (c *Config) Validate() error {
	if c.URL == "" {
		return Errorf(EINVALID, "start url required")
	}
	u, err := url.Parse(c.URL)
	if err != nil {
		return Errorf(EINVALID, "invalid start url %q: %v", c.URL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return Errorf(EINVALID, "start url %q must be an absolute http(s) URL", c.URL)
	}
	if c.Match == "" {
		return Errorf(EINVALID, "match pattern required")
	}
	if _, err := c.Pattern(); err != nil {
		return err
	}
	if c.Selector == "" {
		return Errorf(EINVALID, "content selector required")
	}
	if c.MaxPages < 1 {
		return Errorf(EINVALID, "maxPagesToCrawl must be at least 1, got %d", c.MaxPages)
	}
	if c.OutputFileName == "" {
		return Errorf(EINVALID, "output file name required")
	}
	return nil
}

// Pattern compiles the match pattern. The pattern is anchored at the start
// of the URL, so "https://example.com/docs/" matches every URL under /docs/.
func (c *Config) Pattern() (*regexp.Regexp, error) {
	re, err := regexp.Compile(fmt.Sprintf("^(?:%s)", c.Match))
	if err != nil {
		return nil, Errorf(EINVALID, "invalid match pattern %q: %v", c.Match, err)
	}
	return re, nil
}
