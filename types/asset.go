package types

const (
	AssetTicker       = "ATOMIC"
	AssetTotalSupply  = "1"
	AssetDenomination = "1"
)

// License holds the Universal Data License terms of an asset. Value is the
// license transaction id.
type License struct {
	Value             string `json:"value"`
	AccessFee         string `json:"accessFee,omitempty"`
	Derivations       string `json:"derivations,omitempty"`
	CommercialUse     string `json:"commercialUse,omitempty"`
	DataModelTraining string `json:"dataModelTraining,omitempty"`
	PaymentMode       string `json:"paymentMode,omitempty"`
	PaymentAddress    string `json:"paymentAddress,omitempty"`
	Currency          string `json:"currency,omitempty"`
}

type AssetCreateArgs struct {
	Name         string
	Description  string
	Topics       []string
	Creator      string
	Data         interface{}
	ContentType  string
	AssetType    string
	Supply       string
	Denomination string
	Transferable bool
	Metadata     map[string]interface{}
	Tags         []Tag
	Src          string
	RenderWith   string
	Thumbnail    string
	CollectionId string
	License      *License

	// SpawnComments creates a comments process alongside the asset and
	// records its id under the Comments metadata key.
	SpawnComments bool
	Users         []string
}

type AssetHeader struct {
	Id             string   `json:"id"`
	Owner          string   `json:"owner,omitempty"`
	Creator        string   `json:"creator,omitempty"`
	Title          string   `json:"title"`
	Description    string   `json:"description,omitempty"`
	Type           string   `json:"type,omitempty"`
	Topics         []string `json:"topics"`
	Implementation string   `json:"implementation,omitempty"`
	ContentType    string   `json:"contentType,omitempty"`
	RenderWith     string   `json:"renderWith,omitempty"`
	Thumbnail      string   `json:"thumbnail,omitempty"`
	CollectionId   string   `json:"collectionId,omitempty"`
	CollectionName string   `json:"collectionName,omitempty"`
	DateCreated    int64    `json:"dateCreated"`
	BlockHeight    int64    `json:"blockHeight"`
	DataSource     string   `json:"dataSource,omitempty"`
	RootSource     string   `json:"rootSource,omitempty"`
	License        *License `json:"udl,omitempty"`
	Tags           []Tag    `json:"tags,omitempty"`
}

type AssetState struct {
	Name         string              `json:"name"`
	Ticker       string              `json:"ticker"`
	Denomination Quantity            `json:"denomination"`
	TotalSupply  Quantity            `json:"totalSupply,omitempty"`
	Transferable bool                `json:"transferable"`
	Creator      string              `json:"creator,omitempty"`
	Balances     map[string]Quantity `json:"balances"`
}

// AssetDetail merges the immutable header with the live process state.
type AssetDetail struct {
	AssetHeader
	State    AssetState             `json:"state"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}
