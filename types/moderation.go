package types

const (
	ModerationTargetComment = "comment"
	ModerationTargetProfile = "profile"
	ModerationTargetAsset   = "asset"

	ModerationStatusActive  = "active"
	ModerationStatusBlocked = "blocked"
)

type ModerationEntry struct {
	TargetType    string                 `json:"targetType"`
	TargetId      string                 `json:"targetId"`
	TargetContext string                 `json:"targetContext,omitempty"`
	Status        string                 `json:"status"`
	Moderator     string                 `json:"moderator,omitempty"`
	Reason        string                 `json:"reason,omitempty"`
	DateCreated   int64                  `json:"dateCreated,omitempty"`
	Metadata      map[string]interface{} `json:"metadata,omitempty"`
}

type ModerationFilter struct {
	TargetType    string
	TargetId      string
	TargetContext string
	Status        string
	Moderator     string
}

type ModerationSubscription struct {
	Id        string `json:"id"`
	Type      string `json:"type,omitempty"`
	DateAdded int64  `json:"dateAdded,omitempty"`
}
