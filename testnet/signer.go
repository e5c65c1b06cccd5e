// Package testnet is an in-memory stand-in for the process network, the
// GraphQL indexer and the ledger. Package tests drive the client against it.
package testnet

import (
	"context"
	"crypto/rand"

	"github.com/dvsekhvalnov/jose2go/base64url"

	"github.com/permaweb/permaweb-go/ao"
	"github.com/permaweb/permaweb-go/utils"
)

// RandomId returns a fresh 43 character base64url id.
func RandomId() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return base64url.Encode(b)
}

// Signer signs data items for a random wallet.
type Signer struct {
	address string
}

func NewSigner() *Signer {
	return &Signer{address: RandomId()}
}

func (s *Signer) Address() string {
	return s.address
}

func (s *Signer) Sign(_ context.Context, item *ao.DataItem) (*ao.SignedDataItem, error) {
	raw, err := utils.Marshal(item)
	if err != nil {
		return nil, err
	}
	return &ao.SignedDataItem{Id: RandomId(), Raw: raw}, nil
}

var _ ao.Signer = (*Signer)(nil)

type addressed interface {
	Address() string
}

func ownerOf(signer ao.Signer) string {
	if a, ok := signer.(addressed); ok {
		return a.Address()
	}
	return ""
}
