package types

const (
	RoleTypeWallet  = "wallet"
	RoleTypeProcess = "process"

	ZonePathModeration = "Moderation"
)

type ZoneAsset struct {
	Id          string   `json:"id"`
	Balance     Quantity `json:"balance,omitempty"`
	DateCreated int64    `json:"dateCreated,omitempty"`
	LastUpdate  int64    `json:"lastUpdate,omitempty"`
}

type Zone struct {
	Id      string                 `json:"id,omitempty"`
	Owner   string                 `json:"owner,omitempty"`
	Version string                 `json:"version,omitempty"`
	Store   map[string]interface{} `json:"store"`
	Assets  []ZoneAsset            `json:"assets"`
	Roles   map[string]interface{} `json:"roles,omitempty"`
	Invites []interface{}          `json:"invites,omitempty"`
}

type ZoneRole struct {
	GranteeId  string   `json:"granteeId"`
	Roles      []string `json:"roles"`
	Type       string   `json:"type"`
	SendInvite bool     `json:"sendInvite,omitempty"`
}

type ZoneCreateArgs struct {
	Tags []Tag
	Data interface{}
}
