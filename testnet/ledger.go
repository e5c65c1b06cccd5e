package testnet

import (
	"context"
	"strconv"
	"sync"

	"github.com/permaweb/permaweb-go/arweave"
	"github.com/permaweb/permaweb-go/types"
)

// Ledger records uploads and indexes them like the ledger gateway would.
type Ledger struct {
	lk      sync.Mutex
	owner   string
	indexer *Indexer
	uploads []*arweave.Transaction
	err     error
}

func NewLedger(owner string, indexer *Indexer) *Ledger {
	return &Ledger{owner: owner, indexer: indexer}
}

// Fail makes every further upload fail with err. A nil err restores uploads.
func (l *Ledger) Fail(err error) {
	l.lk.Lock()
	defer l.lk.Unlock()
	l.err = err
}

func (l *Ledger) Uploads() []*arweave.Transaction {
	l.lk.Lock()
	defer l.lk.Unlock()
	return append([]*arweave.Transaction{}, l.uploads...)
}

func (l *Ledger) CreateTransaction(_ context.Context, tx *arweave.Transaction) (string, error) {
	l.lk.Lock()
	defer l.lk.Unlock()
	if l.err != nil {
		return "", l.err
	}

	l.uploads = append(l.uploads, tx)
	id := RandomId()
	if l.indexer != nil {
		contentType, _ := types.GetTagValue(tx.Tags, types.TagContentType)
		l.indexer.Add(types.GQLNode{
			Id:    id,
			Tags:  tx.Tags,
			Data:  types.GQLData{Size: strconv.Itoa(len(tx.Data)), Type: contentType},
			Owner: types.GQLOwner{Address: l.owner},
		})
		l.indexer.SetData(id, tx.Data)
	}
	return id, nil
}

var _ arweave.LedgerClient = (*Ledger)(nil)
