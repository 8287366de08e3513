package schema

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Schema files carry many keys the typed fields don't model: an attribute's maxLength, default or enum,
// an icon in info, and so on. Each schema type keeps those in Extra and writes them back after its
// own fields, so installing a loaded definition never loses content.

func (c ContentType) MarshalJSON() ([]byte, error) {
	type plain ContentType
	return marshalWithExtra(plain(c), c.Extra)
}

func (c *ContentType) UnmarshalJSON(data []byte) error {
	type plain ContentType
	var p plain
	extra, err := unmarshalWithExtra(data, &p)
	if err != nil {
		return err
	}
	*c = ContentType(p)
	c.Extra = extra
	return nil
}

func (i Info) MarshalJSON() ([]byte, error) {
	type plain Info
	return marshalWithExtra(plain(i), i.Extra)
}

func (i *Info) UnmarshalJSON(data []byte) error {
	type plain Info
	var p plain
	extra, err := unmarshalWithExtra(data, &p)
	if err != nil {
		return err
	}
	*i = Info(p)
	i.Extra = extra
	return nil
}

func (o Options) MarshalJSON() ([]byte, error) {
	type plain Options
	return marshalWithExtra(plain(o), o.Extra)
}

func (o *Options) UnmarshalJSON(data []byte) error {
	type plain Options
	var p plain
	extra, err := unmarshalWithExtra(data, &p)
	if err != nil {
		return err
	}
	*o = Options(p)
	o.Extra = extra
	return nil
}

func (a Attribute) MarshalJSON() ([]byte, error) {
	type plain Attribute
	return marshalWithExtra(plain(a), a.Extra)
}

func (a *Attribute) UnmarshalJSON(data []byte) error {
	type plain Attribute
	var p plain
	extra, err := unmarshalWithExtra(data, &p)
	if err != nil {
		return err
	}
	*a = Attribute(p)
	a.Extra = extra
	return nil
}

// marshalWithExtra encodes known, which must encode to a JSON object, and appends the entries of extra
// that don't collide with one of known's fields, in key order.
func marshalWithExtra(known interface{}, extra map[string]interface{}) ([]byte, error) {
	data, err := json.Marshal(known)
	if err != nil || len(extra) == 0 {
		return data, errors.WithStack(err)
	}
	fields := jsonFieldNames(reflect.TypeOf(known))
	var buf bytes.Buffer
	buf.Write(bytes.TrimSuffix(data, []byte("}")))
	empty := bytes.Equal(data, []byte("{}"))
	keys := maps.Keys(extra)
	slices.Sort(keys)
	for _, key := range keys {
		if fields[strings.ToLower(key)] {
			continue
		}
		encodedKey, err := json.Marshal(key)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		value, err := json.Marshal(extra[key])
		if err != nil {
			return nil, errors.Wrapf(err, "encoding %q", key)
		}
		if !empty {
			buf.WriteByte(',')
		}
		empty = false
		buf.Write(encodedKey)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// unmarshalWithExtra decodes data into target, a pointer to a struct, and returns the object's entries
// that none of the struct's fields consumed. It returns nil rather than an empty map when there are none.
func unmarshalWithExtra(data []byte, target interface{}) (map[string]interface{}, error) {
	if err := json.Unmarshal(data, target); err != nil {
		return nil, err
	}
	var all map[string]interface{}
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	fields := jsonFieldNames(reflect.TypeOf(target).Elem())
	for key := range all {
		// encoding/json matches field names case-insensitively.
		if fields[strings.ToLower(key)] {
			delete(all, key)
		}
	}
	if len(all) == 0 {
		return nil, nil
	}
	return all, nil
}

// jsonFieldNames returns the lower-cased JSON names of t's encoded fields.
func jsonFieldNames(t reflect.Type) map[string]bool {
	names := map[string]bool{}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			continue
		}
		if name == "" {
			name = f.Name
		}
		names[strings.ToLower(name)] = true
	}
	return names
}
