package schema

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// ContentType is a content type definition in the on-disk schema.json format.
type ContentType struct {
	Kind           string                 `json:"kind"`
	CollectionName string                 `json:"collectionName"`
	Info           Info                   `json:"info"`
	Options        Options                `json:"options"`
	PluginOptions  map[string]interface{} `json:"pluginOptions"`
	Attributes     map[string]Attribute   `json:"attributes"`

	// Keys not modelled above, written back unchanged.
	Extra map[string]interface{} `json:"-"`
}

type Info struct {
	SingularName string `json:"singularName"`
	PluralName   string `json:"pluralName"`
	DisplayName  string `json:"displayName"`
	Description  string `json:"description,omitempty"`

	Extra map[string]interface{} `json:"-"`
}

type Options struct {
	DraftAndPublish bool `json:"draftAndPublish"`

	Extra map[string]interface{} `json:"-"`
}

// Attribute covers both relation styles: Relation/Target/MappedBy/InversedBy for files installed on disk,
// and Model/Collection/Via for the remote content-type builder.
type Attribute struct {
	Type       string `json:"type,omitempty"`
	Required   bool   `json:"required,omitempty"`
	Unique     bool   `json:"unique,omitempty"`
	Relation   string `json:"relation,omitempty"`
	Target     string `json:"target,omitempty"`
	MappedBy   string `json:"mappedBy,omitempty"`
	InversedBy string `json:"inversedBy,omitempty"`
	Model      string `json:"model,omitempty"`
	Collection string `json:"collection,omitempty"`
	Via        string `json:"via,omitempty"`

	// Other settings such as default, maxLength, enum or private.
	Extra map[string]interface{} `json:"-"`
}

// AttributeNames returns the attribute names of c in lexical order.
func (c ContentType) AttributeNames() []string {
	names := maps.Keys(c.Attributes)
	slices.Sort(names)
	return names
}

// Definition pairs a content type with the entity name it is installed under.
type Definition struct {
	Name   string      `json:"name"`
	Schema ContentType `json:"schema"`
}
