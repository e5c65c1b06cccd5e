package types

const (
	CommentStatusActive   = "active"
	CommentStatusInactive = "inactive"
)

type CommentCreateArgs struct {
	Content  string
	Creator  string
	ParentId string
	RootId   string
	Tags     []Tag
}

// Comment is either an asset linked by Data-Source/Root-Source or an entry
// of a comments process.
type Comment struct {
	Id          string `json:"id"`
	Content     string `json:"content,omitempty"`
	Creator     string `json:"creator,omitempty"`
	ParentId    string `json:"parentId,omitempty"`
	RootId      string `json:"rootId,omitempty"`
	Status      string `json:"status,omitempty"`
	Pinned      bool   `json:"pinned,omitempty"`
	DateCreated int64  `json:"dateCreated,omitempty"`
	Depth       int    `json:"depth,omitempty"`
}

type CommentFilter struct {
	RootId     string
	ParentId   string
	CommentsId string
}

type ProcessCommentArgs struct {
	CommentsId string
	Content    string
	ParentId   string
	RootId     string
}

type CommentsProcessArgs struct {
	AssetId string
	Creator string
	Users   []string
}
