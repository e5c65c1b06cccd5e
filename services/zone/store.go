package zone

import (
	"sort"
	"strings"

	"golang.org/x/xerrors"

	"github.com/permaweb/permaweb-go/codec"
	"github.com/permaweb/permaweb-go/types"
	"github.com/permaweb/permaweb-go/utils"
)

var pointerUnescaper = strings.NewReplacer("~1", "/", "~0", "~")
var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

func topLevelKey(path string) string {
	path = strings.TrimPrefix(path, "/")
	if i := strings.Index(path, "/"); i >= 0 {
		path = path[:i]
	}
	return pointerUnescaper.Replace(path)
}

// DiffStore returns the top level keys whose values differ between current
// and desired, mapped to their desired value. Keys missing from desired map
// to nil.
func DiffStore(current map[string]interface{}, desired map[string]interface{}) (map[string]interface{}, error) {
	if current == nil {
		current = map[string]interface{}{}
	}
	normalized, err := codec.Normalize(desired)
	if err != nil {
		return nil, types.Wrap(types.ErrInvalidJSON, err)
	}
	desired = codec.AsObject(normalized)

	origin, err := utils.Marshal(current)
	if err != nil {
		return nil, xerrors.Errorf("encoding current store: %w", err)
	}
	target, err := utils.Marshal(desired)
	if err != nil {
		return nil, xerrors.Errorf("encoding desired store: %w", err)
	}

	ops, err := utils.GeneratePatch(origin, target)
	if err != nil {
		return nil, err
	}

	changes := make(map[string]interface{})
	for _, op := range ops {
		key := topLevelKey(op.Path)
		if value, ok := desired[key]; ok {
			changes[key] = value
		} else {
			changes[key] = nil
		}
	}
	return changes, nil
}

type patchOp struct {
	Op    string      `json:"op"`
	Path  string      `json:"path"`
	Value interface{} `json:"value"`
}

// MergeStore applies update to store the way a zone applies Zone-Update:
// top level keys are replaced, nil values remove the key. store is not
// modified.
func MergeStore(store map[string]interface{}, update map[string]interface{}) (map[string]interface{}, error) {
	if store == nil {
		store = map[string]interface{}{}
	}

	keys := make([]string, 0, len(update))
	for key := range update {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	ops := make([]patchOp, 0, len(keys))
	for _, key := range keys {
		path := "/" + pointerEscaper.Replace(key)
		if update[key] == nil {
			if _, ok := store[key]; ok {
				ops = append(ops, patchOp{Op: "remove", Path: path})
			}
			continue
		}
		ops = append(ops, patchOp{Op: "add", Path: path, Value: update[key]})
	}

	origin, err := utils.Marshal(store)
	if err != nil {
		return nil, xerrors.Errorf("encoding store: %w", err)
	}
	if len(ops) == 0 {
		out := map[string]interface{}{}
		if err := utils.Unmarshal(origin, &out); err != nil {
			return nil, err
		}
		return out, nil
	}

	patch, err := utils.Marshal(ops)
	if err != nil {
		return nil, xerrors.Errorf("encoding patch: %w", err)
	}
	merged, err := utils.ApplyPatch(origin, patch)
	if err != nil {
		return nil, err
	}

	out := map[string]interface{}{}
	if err := utils.Unmarshal(merged, &out); err != nil {
		return nil, xerrors.Errorf("decoding merged store: %w", err)
	}
	return out, nil
}
