package schema

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/armadaproject/cmsbench/internal/common/cmserrors"
)

func TestInstall_WritesExpectedLayout(t *testing.T) {
	root := t.TempDir()
	paths, err := NewInstaller(root).Install(Definitions())
	require.NoError(t, err)

	expected := []string{
		filepath.Join(root, "api", "author", "content-types", "author", "schema.json"),
		filepath.Join(root, "api", "tag", "content-types", "tag", "schema.json"),
		filepath.Join(root, "api", "article", "content-types", "article", "schema.json"),
	}
	assert.Equal(t, expected, paths)
	for _, p := range expected {
		assert.FileExists(t, p)
	}
}

func TestInstall_RoundTrip(t *testing.T) {
	installer := NewInstaller(t.TempDir())
	defs := Definitions()
	_, err := installer.Install(defs)
	require.NoError(t, err)

	for _, def := range defs {
		parsed, err := ReadSchema(installer.PathFor(def.Name))
		require.NoError(t, err)
		if diff := cmp.Diff(def.Schema, parsed); diff != "" {
			t.Errorf("schema for %s changed after round trip (-want +got):\n%s", def.Name, diff)
		}
	}
}

func TestInstall_UsesTwoSpaceIndent(t *testing.T) {
	installer := NewInstaller(t.TempDir())
	_, err := installer.Install(Definitions()[:1])
	require.NoError(t, err)

	data, err := os.ReadFile(installer.PathFor("author"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "{\n  \"kind\": \"collectionType\",")
	assert.Contains(t, string(data), "\n    \"singularName\": \"author\",")
}

func TestInstall_OverwritesExistingFiles(t *testing.T) {
	installer := NewInstaller(t.TempDir())
	path := installer.PathFor("tag")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0o644))

	_, err := installer.Install(Definitions())
	require.NoError(t, err)

	parsed, err := ReadSchema(path)
	require.NoError(t, err)
	assert.Equal(t, "tags", parsed.CollectionName)
}

func TestInstall_RejectsBadNames(t *testing.T) {
	tests := map[string][]Definition{
		"empty":     {{Name: ""}},
		"separator": {{Name: "a/b"}},
		"parent":    {{Name: ".."}},
		"duplicate": {{Name: "author"}, {Name: "author"}},
	}
	for name, defs := range tests {
		t.Run(name, func(t *testing.T) {
			root := t.TempDir()
			_, err := NewInstaller(root).Install(defs)
			var invalid *cmserrors.ErrInvalidArgument
			assert.True(t, errors.As(err, &invalid))

			entries, err := os.ReadDir(root)
			require.NoError(t, err)
			assert.Empty(t, entries)
		})
	}
}

func TestDefinitions_Relations(t *testing.T) {
	defs := map[string]ContentType{}
	for _, d := range Definitions() {
		defs[d.Name] = d.Schema
	}
	require.Len(t, defs, 3)

	assert.Equal(t, Attribute{Type: "relation", Relation: "oneToMany", Target: "api::article.article", MappedBy: "author"}, defs["author"].Attributes["articles"])
	assert.Equal(t, Attribute{Type: "relation", Relation: "manyToMany", Target: "api::article.article", MappedBy: "tags"}, defs["tag"].Attributes["articles"])
	assert.Equal(t, Attribute{Type: "relation", Relation: "manyToOne", Target: "api::author.author", InversedBy: "articles"}, defs["article"].Attributes["author"])
	assert.Equal(t, Attribute{Type: "relation", Relation: "manyToMany", Target: "api::tag.tag", InversedBy: "articles"}, defs["article"].Attributes["tags"])
	assert.Equal(t, []string{"articles", "bio", "email", "name", "twitter"}, defs["author"].AttributeNames())
}

func TestLoadDefinitions(t *testing.T) {
	tests := map[string]string{
		"defs.yaml": `
- name: category
  schema:
    kind: collectionType
    collectionName: categories
    info:
      singularName: category
      pluralName: categories
      displayName: Category
    options:
      draftAndPublish: false
    pluginOptions: {}
    attributes:
      name:
        type: string
        required: true
`,
		"defs.json": `[{"name":"category","schema":{"kind":"collectionType","collectionName":"categories",
"info":{"singularName":"category","pluralName":"categories","displayName":"Category"},
"options":{"draftAndPublish":false},"pluginOptions":{},
"attributes":{"name":{"type":"string","required":true}}}}]`,
	}
	expected := []Definition{{
		Name: "category",
		Schema: ContentType{
			Kind:           "collectionType",
			CollectionName: "categories",
			Info:           Info{SingularName: "category", PluralName: "categories", DisplayName: "Category"},
			PluginOptions:  map[string]interface{}{},
			Attributes:     map[string]Attribute{"name": {Type: "string", Required: true}},
		},
	}}
	for file, content := range tests {
		t.Run(file, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), file)
			require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

			defs, err := LoadDefinitions(path)
			require.NoError(t, err)
			if diff := cmp.Diff(expected, defs); diff != "" {
				t.Errorf("unexpected definitions (-want +got):\n%s", diff)
			}
		})
	}
}

func TestInstall_KeepsSettingsFromLoadedDefinitions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "defs.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
- name: page
  schema:
    kind: collectionType
    collectionName: pages
    info:
      singularName: page
      pluralName: pages
      displayName: Page
      icon: file
    options:
      draftAndPublish: true
      comment: ""
    pluginOptions:
      i18n:
        localized: true
    attributes:
      title:
        type: string
        maxLength: 80
        default: Untitled
      status:
        type: enumeration
        enum: [draft, live]
        private: true
      slug:
        type: uid
        required: true
    config:
      layout: wide
`), 0o644))
	defs, err := LoadDefinitions(path)
	require.NoError(t, err)

	installer := NewInstaller(filepath.Join(dir, "cms"))
	_, err = installer.Install(defs)
	require.NoError(t, err)

	data, err := os.ReadFile(installer.PathFor("page"))
	require.NoError(t, err)
	written := gjson.ParseBytes(data)
	assert.Equal(t, int64(80), written.Get("attributes.title.maxLength").Int())
	assert.Equal(t, "Untitled", written.Get("attributes.title.default").String())
	assert.Equal(t, `["draft","live"]`, written.Get("attributes.status.enum").Raw)
	assert.True(t, written.Get("attributes.status.private").Bool())
	assert.True(t, written.Get("attributes.slug.required").Bool())
	assert.Equal(t, "file", written.Get("info.icon").String())
	assert.True(t, written.Get("options.comment").Exists())
	assert.Equal(t, "wide", written.Get("config.layout").String())
	assert.True(t, written.Get("pluginOptions.i18n.localized").Bool())
	assert.Contains(t, string(data), "{\n  \"kind\": \"collectionType\",")

	parsed, err := ReadSchema(installer.PathFor("page"))
	require.NoError(t, err)
	if diff := cmp.Diff(defs[0].Schema, parsed); diff != "" {
		t.Errorf("schema changed after round trip (-want +got):\n%s", diff)
	}
}

func TestAttribute_ExtraDoesNotOverrideTypedFields(t *testing.T) {
	out, err := json.Marshal(Attribute{Type: "string", Extra: map[string]interface{}{"type": "text", "maxLength": 5}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"string","maxLength":5}`, string(out))

	out, err = json.Marshal(Attribute{Extra: map[string]interface{}{"private": true}})
	require.NoError(t, err)
	assert.Equal(t, `{"private":true}`, string(out))
}

func TestLoadDefinitions_MissingFile(t *testing.T) {
	_, err := LoadDefinitions(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
