// Package codec translates between the camelCase object model used by
// callers and the PascalCase keys and tags processes expect.
package codec

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/permaweb/permaweb-go/types"
	"github.com/permaweb/permaweb-go/utils"
)

func toProcessKey(key string) string {
	if key == "" || key[0] < 'a' || key[0] > 'z' {
		return key
	}
	return string(key[0]-'a'+'A') + key[1:]
}

func fromProcessKey(key string) string {
	r, size := utf8.DecodeRuneInString(key)
	if r == utf8.RuneError {
		return key
	}
	return string(unicode.ToLower(r)) + key[size:]
}

// ToProcessCase capitalizes the first letter of every object key, recursing
// through nested objects and arrays. Keys and string values that are valid
// addresses are left as they are.
func ToProcessCase(v interface{}) interface{} {
	return mapKeys(v, func(key string) string {
		if utils.CheckValidAddress(key) {
			return key
		}
		return toProcessKey(key)
	})
}

// FromProcessCase lowercases the first letter of every object key. Address
// keys and keys containing a hyphen are kept as they are.
func FromProcessCase(v interface{}) interface{} {
	return mapKeys(v, func(key string) string {
		if utils.CheckValidAddress(key) || strings.Contains(key, "-") {
			return key
		}
		return fromProcessKey(key)
	})
}

// collides reports whether key would overwrite an entry of out that is
// already spelled mapped. A key that needs no mapping wins a collision.
func collides(out map[string]interface{}, key, mapped string) bool {
	_, exists := out[mapped]
	return exists && key != mapped
}

func mapKeys(v interface{}, keyFn func(string) string) interface{} {
	switch value := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(value))
		for key, item := range value {
			mapped := keyFn(key)
			if collides(out, key, mapped) {
				continue
			}
			if utils.IsAddressValue(item) {
				out[mapped] = item
				continue
			}
			out[mapped] = mapKeys(item, keyFn)
		}
		return out
	case map[string]string:
		out := make(map[string]interface{}, len(value))
		for key, item := range value {
			mapped := keyFn(key)
			if collides(out, key, mapped) {
				continue
			}
			out[mapped] = item
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(value))
		for i, item := range value {
			out[i] = mapKeys(item, keyFn)
		}
		return out
	case []map[string]interface{}:
		out := make([]interface{}, len(value))
		for i, item := range value {
			out[i] = mapKeys(item, keyFn)
		}
		return out
	default:
		return v
	}
}

// BootTag builds the spawn-time initialization tag for key.
func BootTag(key string, value string) types.Tag {
	name := key
	if r, size := utf8.DecodeRuneInString(key); r != utf8.RuneError {
		name = string(unicode.ToUpper(r)) + key[size:]
	}
	return types.Tag{Name: types.TagBootloader + "-" + name, Value: value}
}

// TagsToObject folds tags into an object keyed by tag name. Later tags win.
func TagsToObject(tags []types.Tag) map[string]interface{} {
	out := make(map[string]interface{}, len(tags))
	for _, tag := range tags {
		out[tag.Name] = tag.Value
	}
	return out
}

// ObjectToTags renders a flat object as tags ordered by key. String slices
// become repeated tags.
func ObjectToTags(obj map[string]interface{}) ([]types.Tag, error) {
	keys := make([]string, 0, len(obj))
	for key := range obj {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	tags := make([]types.Tag, 0, len(keys))
	for _, key := range keys {
		switch value := obj[key].(type) {
		case nil:
		case string:
			tags = append(tags, types.Tag{Name: key, Value: value})
		case []string:
			for _, item := range value {
				tags = append(tags, types.Tag{Name: key, Value: item})
			}
		default:
			encoded, err := utils.MarshalString(value)
			if err != nil {
				return nil, err
			}
			tags = append(tags, types.Tag{Name: key, Value: encoded})
		}
	}
	return tags, nil
}
