package arweave

import (
	"context"
	"crypto/sha256"
	"io"
	"net/http"
	"strings"

	"github.com/dvsekhvalnov/jose2go/base64url"
	"golang.org/x/xerrors"

	"github.com/permaweb/permaweb-go/types"
	"github.com/permaweb/permaweb-go/utils"
)

const DefaultGateway = "arweave.net"

func GetTxEndpoint(txId string) string {
	return "ar://" + txId
}

func GetARBalanceEndpoint(walletAddress string) string {
	return "ar://wallet/" + walletAddress + "/balance"
}

func GetRendererEndpoint(renderWith string, txId string) string {
	if utils.CheckValidAddress(renderWith) {
		return "ar://" + renderWith + "/?tx=" + txId
	}
	return "https://" + renderWith + ".arweave.net/?tx=" + txId
}

// TxDataURL is the http location of a transaction's data on gateway.
func TxDataURL(gateway string, txId string) string {
	if gateway == "" {
		gateway = DefaultGateway
	}
	if strings.HasPrefix(gateway, "http://") || strings.HasPrefix(gateway, "https://") {
		return strings.TrimSuffix(gateway, "/") + "/" + txId
	}
	return "https://" + gateway + "/" + txId
}

// FetchTransactionData downloads the data of txId from gateway.
func FetchTransactionData(ctx context.Context, httpClient *http.Client, gateway string, txId string) ([]byte, error) {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, TxDataURL(gateway, txId), nil)
	if err != nil {
		return nil, types.Wrap(types.ErrFetchFailed, err)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, types.Wrap(types.ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, types.Wrapf(types.ErrFetchFailed, "transaction %s: status %d", txId, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, types.Wrap(types.ErrFetchFailed, err)
	}
	return data, nil
}

// OwnerToAddress derives the wallet address from the base64url encoded
// owner public key.
func OwnerToAddress(owner string) (string, error) {
	modulus, err := base64url.Decode(owner)
	if err != nil {
		return "", xerrors.Errorf("decode owner: %w", err)
	}
	sum := sha256.Sum256(modulus)
	return base64url.Encode(sum[:]), nil
}
