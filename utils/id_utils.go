package utils

import (
	"bytes"

	"github.com/google/uuid"
	"github.com/ipfs/go-cid"
	jsoniter "github.com/json-iterator/go"
	"github.com/multiformats/go-multicodec"
	"github.com/multiformats/go-multihash"
	"golang.org/x/xerrors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func GenerateCommentId() string {
	return uuid.New().String()
}

func Marshal(obj interface{}) ([]byte, error) {
	b, err := json.Marshal(obj)
	if err != nil {
		return nil, xerrors.Errorf("marshal: %w", err)
	}

	return b, nil
}

func MarshalString(obj interface{}) (string, error) {
	b, err := Marshal(obj)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func Unmarshal(data []byte, v interface{}) error {
	if err := json.Unmarshal(data, v); err != nil {
		return xerrors.Errorf("unmarshal: %w", err)
	}
	return nil
}

// IsJSON reports whether s parses as a single JSON value.
func IsJSON(s string) bool {
	if len(bytes.TrimSpace([]byte(s))) == 0 {
		return false
	}
	return json.Valid([]byte(s))
}

// CalculateCid returns the CIDv1 (raw codec, sha2-256) of content.
func CalculateCid(content []byte) (cid.Cid, error) {
	pref := cid.Prefix{
		Version:  1,
		Codec:    uint64(multicodec.Raw),
		MhType:   multihash.SHA2_256,
		MhLength: -1, // default length
	}

	contentCid, err := pref.Sum(content)
	if err != nil {
		return cid.Undef, err
	}

	return contentCid, nil
}
