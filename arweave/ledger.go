package arweave

import (
	"context"
	"encoding/base64"

	logging "github.com/ipfs/go-log/v2"

	"github.com/permaweb/permaweb-go/cache"
	"github.com/permaweb/permaweb-go/types"
	"github.com/permaweb/permaweb-go/utils"
)

var log = logging.Logger("arweave")

const (
	// DispatchUploadSize is the largest payload sent through the ledger client.
	DispatchUploadSize = 100 * 1024

	uploadCacheName     = "uploads"
	uploadCacheCapacity = 1000
)

type Transaction struct {
	Data []byte
	Tags []types.Tag
}

// LedgerClient creates, signs and dispatches a ledger transaction,
// returning its id.
type LedgerClient interface {
	CreateTransaction(ctx context.Context, tx *Transaction) (string, error)
}

type Resolver struct {
	ledger LedgerClient
	cache  cache.CacheSvcApi
}

// NewResolver returns a resolver uploading through ledger. When uploads is
// not nil, identical payloads are uploaded once while the last capacity
// upload ids are remembered.
func NewResolver(ledger LedgerClient, uploads cache.CacheSvcApi, capacity int) *Resolver {
	r := &Resolver{ledger: ledger, cache: uploads}
	if capacity < 1 {
		capacity = uploadCacheCapacity
	}
	if uploads != nil {
		if err := uploads.CreateCache(uploadCacheName, capacity); err != nil {
			log.Debugf("upload cache: %v", err)
		}
	}
	return r
}

// ResolveTransaction returns data unchanged when it already is a
// transaction id. Otherwise data must be a base64 data URL, which is
// uploaded and replaced by the new transaction id.
func (r *Resolver) ResolveTransaction(ctx context.Context, data string) (string, error) {
	if utils.CheckValidAddress(data) {
		return data, nil
	}
	if r == nil || r.ledger == nil {
		return "", types.Wrapf(types.ErrNoLedger, "must initialize with a ledger client in order to create transactions")
	}
	return r.CreateTransaction(ctx, data, nil)
}

func (r *Resolver) CreateTransaction(ctx context.Context, dataURL string, tags []types.Tag) (string, error) {
	contentType, ok := utils.GetDataURLContentType(dataURL)
	if !ok {
		return "", types.Wrapf(types.ErrInvalidArgs, "data is neither a transaction id nor a base64 data url")
	}
	content, err := base64.StdEncoding.DecodeString(utils.GetBase64Data(dataURL))
	if err != nil {
		return "", types.Wrap(types.ErrInvalidArgs, err)
	}
	if len(content) == 0 {
		return "", types.Wrapf(types.ErrInvalidArgs, "data url has no content")
	}
	if len(content) >= DispatchUploadSize {
		return "", types.ErrUploadTooLarge
	}

	key := ""
	if r.cache != nil {
		contentCid, err := utils.CalculateCid(content)
		if err == nil {
			key = contentCid.String()
			if id, err := r.cache.Get(uploadCacheName, key); err == nil && len(id) > 0 {
				log.Debugf("reusing upload %s for %s", string(id), key)
				return string(id), nil
			}
		}
	}

	txTags := append([]types.Tag{{Name: types.TagContentType, Value: contentType}}, tags...)
	id, err := r.ledger.CreateTransaction(ctx, &Transaction{Data: content, Tags: txTags})
	if err != nil {
		return "", types.Wrap(types.ErrUploadFailed, err)
	}
	log.Infof("uploaded %d bytes of %s as %s", len(content), contentType, id)

	if key != "" {
		r.cache.Put(uploadCacheName, key, []byte(id))
	}
	return id, nil
}
