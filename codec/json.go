package codec

import (
	"github.com/permaweb/permaweb-go/types"
	"github.com/permaweb/permaweb-go/utils"
)

// Normalize converts any Go value into its generic JSON shape
// (map[string]interface{}, []interface{}, string, float64, bool, nil).
// Objects and arrays are copied.
func Normalize(v interface{}) (interface{}, error) {
	switch v.(type) {
	case nil, string, bool, float64:
		return v, nil
	}

	b, err := utils.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out interface{}
	if err := utils.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Decode copies a generic JSON value into out.
func Decode(v interface{}, out interface{}) error {
	b, err := utils.Marshal(v)
	if err != nil {
		return types.Wrap(types.ErrInvalidJSON, err)
	}
	if err := utils.Unmarshal(b, out); err != nil {
		return types.Wrap(types.ErrInvalidJSON, err)
	}
	return nil
}

// AsObject returns v as an object, or an empty object when v is not one.
func AsObject(v interface{}) map[string]interface{} {
	if obj, ok := v.(map[string]interface{}); ok {
		return obj
	}
	return map[string]interface{}{}
}

// StringField reads a string field, treating other types as absent.
func StringField(obj map[string]interface{}, key string) string {
	if s, ok := obj[key].(string); ok {
		return s
	}
	return ""
}
