package testnet

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/permaweb/permaweb-go/utils"
)

const nodeProcessMarker = "~process@1.0/now/"

// Network bundles a fake runtime, indexer and ledger behind one HTTP server.
// The server answers GraphQL on /graphql, HyperBEAM style state reads on
// /{process}~process@1.0/now/{path} and transaction data on /{id}.
type Network struct {
	Runtime *Runtime
	Indexer *Indexer
	Ledger  *Ledger
	Signer  *Signer

	server *httptest.Server

	lk          sync.Mutex
	nodeOffline bool
	nodeReads   int
}

func NewNetwork() *Network {
	indexer := NewIndexer()
	signer := NewSigner()
	n := &Network{
		Runtime: NewRuntime(indexer),
		Indexer: indexer,
		Ledger:  NewLedger(signer.Address(), indexer),
		Signer:  signer,
	}
	n.server = httptest.NewServer(http.HandlerFunc(n.serveHTTP))
	return n
}

// URL is the base url of the network, usable as gateway, indexer and node.
func (n *Network) URL() string {
	return n.server.URL
}

func (n *Network) Close() {
	n.server.Close()
}

// SetNodeOffline makes direct state reads answer 503.
func (n *Network) SetNodeOffline(offline bool) {
	n.lk.Lock()
	defer n.lk.Unlock()
	n.nodeOffline = offline
}

// NodeReads is the number of direct state reads served successfully.
func (n *Network) NodeReads() int {
	n.lk.Lock()
	defer n.lk.Unlock()
	return n.nodeReads
}

func (n *Network) serveHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/")
	switch {
	case path == "graphql":
		n.Indexer.ServeHTTP(w, r)
	case strings.Contains(path, nodeProcessMarker):
		n.serveState(w, path)
	case r.Method == http.MethodGet && utils.CheckValidAddress(path):
		data, ok := n.Indexer.Data(path)
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(data)
	default:
		http.NotFound(w, r)
	}
}

func (n *Network) serveState(w http.ResponseWriter, path string) {
	n.lk.Lock()
	offline := n.nodeOffline
	n.lk.Unlock()
	if offline {
		http.Error(w, "node unavailable", http.StatusServiceUnavailable)
		return
	}

	processId := path[:strings.Index(path, nodeProcessMarker)]
	n.Runtime.lk.Lock()
	p, ok := n.Runtime.processes[processId]
	var state map[string]interface{}
	if ok {
		state = p.info()
	}
	body, err := utils.Marshal(state)
	n.Runtime.lk.Unlock()

	if !ok {
		http.Error(w, "process not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	n.lk.Lock()
	n.nodeReads++
	n.lk.Unlock()
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(body)
}
