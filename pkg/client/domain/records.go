package domain

import (
	"encoding/json"
	"strconv"
	"time"
)

// Id identifies a record in the backend. Ids in canonical decimal form are sent as JSON numbers,
// anything else ("007", "+5", "x7k2b9") as a string.
type Id string

func (id Id) MarshalJSON() ([]byte, error) {
	if n, err := strconv.ParseInt(string(id), 10, 64); err == nil && strconv.FormatInt(n, 10) == string(id) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func IdsFromStrings(ids []string) []Id {
	out := make([]Id, 0, len(ids))
	for _, id := range ids {
		out = append(out, Id(id))
	}
	return out
}

type Author struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Bio     string `json:"bio"`
	Twitter string `json:"twitter"`
}

type Tag struct {
	Name string `json:"name"`
}

type Article struct {
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Excerpt     string    `json:"excerpt"`
	PublishDate time.Time `json:"publish_date"`
	Author      Id        `json:"author"`
	Tags        []Id      `json:"tags"`
}

// CreatedRecord summarises a record the backend accepted.
type CreatedRecord struct {
	Id         Id
	Collection string
	// Label is a human readable description, e.g. the author's name or the article title.
	Label string
}
