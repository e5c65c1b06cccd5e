package types

type ProfileArgs struct {
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	Description string `json:"description"`
	Thumbnail   string `json:"thumbnail,omitempty"`
	Banner      string `json:"banner,omitempty"`
}

type Profile struct {
	Id          string                 `json:"id"`
	Owner       string                 `json:"owner,omitempty"`
	Version     string                 `json:"version,omitempty"`
	Username    string                 `json:"username,omitempty"`
	DisplayName string                 `json:"displayName,omitempty"`
	Description string                 `json:"description,omitempty"`
	Thumbnail   string                 `json:"thumbnail,omitempty"`
	Banner      string                 `json:"banner,omitempty"`
	Assets      []ZoneAsset            `json:"assets"`
	Store       map[string]interface{} `json:"store,omitempty"`
}
