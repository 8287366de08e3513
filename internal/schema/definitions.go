package schema

import (
	"github.com/armadaproject/cmsbench/pkg/client/util"
)

func collectionType(singular, plural, display, description string, attributes map[string]Attribute) ContentType {
	return ContentType{
		Kind:           "collectionType",
		CollectionName: plural,
		Info: Info{
			SingularName: singular,
			PluralName:   plural,
			DisplayName:  display,
			Description:  description,
		},
		Options:       Options{DraftAndPublish: true},
		PluginOptions: map[string]interface{}{},
		Attributes:    attributes,
	}
}

// Definitions returns the blog content types: authors and tags, and articles that relate to both.
func Definitions() []Definition {
	return []Definition{
		{
			Name: "author",
			Schema: collectionType("author", "authors", "Author", "Content authors for the blog", map[string]Attribute{
				"name":    {Type: "string", Required: true},
				"email":   {Type: "email", Required: true, Unique: true},
				"bio":     {Type: "text"},
				"twitter": {Type: "string"},
				"articles": {
					Type:     "relation",
					Relation: "oneToMany",
					Target:   "api::article.article",
					MappedBy: "author",
				},
			}),
		},
		{
			Name: "tag",
			Schema: collectionType("tag", "tags", "Tag", "Category tags for articles", map[string]Attribute{
				"name": {Type: "string", Required: true, Unique: true},
				"articles": {
					Type:     "relation",
					Relation: "manyToMany",
					Target:   "api::article.article",
					MappedBy: "tags",
				},
			}),
		},
		{
			Name: "article",
			Schema: collectionType("article", "articles", "Article", "Blog posts and articles", map[string]Attribute{
				"title":        {Type: "string", Required: true},
				"content":      {Type: "richtext", Required: true},
				"excerpt":      {Type: "text"},
				"published_at": {Type: "datetime"},
				"author": {
					Type:       "relation",
					Relation:   "manyToOne",
					Target:     "api::author.author",
					InversedBy: "articles",
				},
				"tags": {
					Type:       "relation",
					Relation:   "manyToMany",
					Target:     "api::tag.tag",
					InversedBy: "articles",
				},
			}),
		},
	}
}

// LoadDefinitions reads a list of definitions from a YAML or JSON file.
func LoadDefinitions(path string) ([]Definition, error) {
	var defs []Definition
	if err := util.BindJsonOrYaml(path, &defs); err != nil {
		return nil, err
	}
	return defs, nil
}
