package utils

import (
	applier "github.com/evanphx/json-patch"
	creator "github.com/mattbaird/jsonpatch"

	"golang.org/x/xerrors"
)

// GeneratePatch diffs two JSON documents into RFC 6902 operations. Array
// removals come out highest index first and must be applied in that order.
func GeneratePatch(contentOrigin []byte, contentTarget []byte) ([]creator.JsonPatchOperation, error) {
	patches, err := creator.CreatePatch(contentOrigin, contentTarget)
	if err != nil {
		return nil, xerrors.Errorf("create patch: %w", err)
	}
	return patches, nil
}

func ApplyPatch(jsonDataOrg []byte, patch []byte) ([]byte, error) {
	patcher, err := applier.DecodePatch(patch)
	if err != nil {
		return nil, xerrors.Errorf("decode patch: %w", err)
	}

	target, err := patcher.Apply(jsonDataOrg)
	if err != nil {
		return nil, xerrors.Errorf("apply patch: %w", err)
	}

	return target, nil
}
