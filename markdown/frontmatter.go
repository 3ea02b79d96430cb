package markdown

import (
	"bytes"
	"fmt"
	"time"

	"github.com/adrg/frontmatter"
)

// Document is a markdown file split into its front matter and body.
type Document struct {
	Title         string    `yaml:"title"`
	Slug          string    `yaml:"slug"`
	Category      string    `yaml:"category"`
	Excerpt       string    `yaml:"excerpt"`
	Tags          []string  `yaml:"tags"`
	Status        string    `yaml:"status"`
	Draft         bool      `yaml:"draft"`
	Date          time.Time `yaml:"date"`
	CoverImageURL string    `yaml:"cover_image_url"`

	Body string `yaml:"-"`
}

// ParseDocument reads YAML, TOML or JSON front matter. A file without front
// matter yields an empty header and the whole input as body.
func ParseDocument(src []byte) (*Document, error) {
	var doc Document
	body, err := frontmatter.Parse(bytes.NewReader(src), &doc)
	if err != nil {
		return nil, fmt.Errorf("parse frontmatter: %w", err)
	}
	doc.Body = string(bytes.TrimSpace(body))
	return &doc, nil
}

// PostStatus maps the status/draft fields onto draft|published. An explicit
// status wins; otherwise draft: true means draft and anything else is published.
func (d *Document) PostStatus() string {
	switch d.Status {
	case "draft", "published":
		return d.Status
	}
	if d.Draft {
		return "draft"
	}
	return "published"
}
