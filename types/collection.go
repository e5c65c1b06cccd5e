package types

const (
	CollectionUpdateAdd    = "Add"
	CollectionUpdateRemove = "Remove"

	DefaultCollectionBanner    = "eXCtpVbcd_jZ0dmU2PZ8focaKxBGECBQ8wMib7sIVPo"
	DefaultCollectionThumbnail = "lJovHqM9hwNjHV5JoY9NGWtt0WD-5D4gOqNL2VWW5jk"
)

type CollectionArgs struct {
	Title          string
	Description    string
	Creator        string
	Thumbnail      string
	Banner         string
	SkipRegistry   bool
	CreateActivity bool
}

type Collection struct {
	Id              string   `json:"id"`
	Title           string   `json:"title"`
	Description     string   `json:"description,omitempty"`
	Creator         string   `json:"creator,omitempty"`
	DateCreated     Quantity `json:"dateCreated,omitempty"`
	Banner          string   `json:"banner,omitempty"`
	Thumbnail       string   `json:"thumbnail,omitempty"`
	Assets          []string `json:"assets,omitempty"`
	ActivityProcess string   `json:"activityProcess,omitempty"`
}

type CollectionUpdateArgs struct {
	CollectionId string
	AssetIds     []string
	Creator      string
	UpdateType   string
}
