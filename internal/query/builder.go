// Package query builds the filtered article query used by the load and corpus commands.
//
// The query language offers no "starts with" operator on strings, so an author-name prefix P is
// expressed as the half-open range [P, NextChar(P)). This only holds for single-character ASCII
// prefixes and is case-sensitive; at the top of a letter range it runs into punctuation ("Z" bounds
// with "["). Both properties are kept as-is.
package query

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

const articlesQueryTemplate = `
query GetArticles {
  articles (
    where: {
      publish_date_gte: "%sT00:00:00.000Z"
      publish_date_lte: "%sT00:00:00.000Z"
      author: { name_gte: "%s" , name_lt: "%s"  }
      tags: { name: %s }
    }
  ) {
    title
    excerpt
    publish_date
    author {
      name
    }
    tags {
      name
    }
  }
}
`

// DateRange is an inclusive range of calendar days in YYYY-MM-DD form.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// UnmarshalText accepts "start..end", which keeps ranges short in flags and config lists.
func (r *DateRange) UnmarshalText(text []byte) error {
	parts := strings.Split(string(text), "..")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return fmt.Errorf("invalid date range %q, expected start..end", string(text))
	}
	r.Start = strings.TrimSpace(parts[0])
	r.End = strings.TrimSpace(parts[1])
	return nil
}

func (r DateRange) String() string {
	return r.Start + ".." + r.End
}

// Case is one set of filter parameters.
type Case struct {
	DateRange    DateRange `json:"dateRange"`
	Tags         []string  `json:"tags"`
	AuthorPrefix string    `json:"authorPrefix"`
}

// Payload is a GraphQL request body. Parameters are inlined into Query; there are no variables.
type Payload struct {
	Query string `json:"query"`
}

func (p Payload) Marshal() ([]byte, error) {
	return json.Marshal(p)
}

// NextChar returns the character following the first byte of prefix, i.e. chr(ord(prefix[0]) + 1).
// It does not wrap or skip punctuation.
func NextChar(prefix string) string {
	if prefix == "" {
		return ""
	}
	return string(rune(prefix[0]) + 1)
}

// Build renders c into a request payload.
func Build(c Case) Payload {
	return Payload{
		Query: fmt.Sprintf(articlesQueryTemplate,
			c.DateRange.Start,
			c.DateRange.End,
			c.AuthorPrefix,
			NextChar(c.AuthorPrefix),
			encodeTags(c.Tags),
		),
	}
}

// encodeTags renders tags as a JSON array literal, which is also a valid GraphQL list of strings.
func encodeTags(tags []string) string {
	if tags == nil {
		tags = []string{}
	}
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	// Encoding a []string cannot fail.
	_ = enc.Encode(tags)
	return strings.TrimSuffix(buf.String(), "\n")
}
