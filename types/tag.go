package types

import "strings"

type Tag struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type TagMatch string

const (
	TagMatchExact    TagMatch = "EXACT"
	TagMatchWildcard TagMatch = "WILDCARD"
	TagMatchFuzzyAnd TagMatch = "FUZZY_AND"
	TagMatchFuzzyOr  TagMatch = "FUZZY_OR"
)

func (m TagMatch) Valid() bool {
	switch m {
	case TagMatchExact, TagMatchWildcard, TagMatchFuzzyAnd, TagMatchFuzzyOr:
		return true
	}
	return false
}

type TagFilter struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
	Match  TagMatch `json:"match,omitempty"`
}

// StatusFunc receives progress updates from multi-step writes. It may be nil.
type StatusFunc func(status string)

func (f StatusFunc) Report(status string) {
	if f != nil {
		f(status)
	}
}

// GetTagValue returns the value of the first tag with the given name.
func GetTagValue(tags []Tag, name string) (string, bool) {
	for _, tag := range tags {
		if tag.Name == name {
			return tag.Value, true
		}
	}
	return "", false
}

func GetTagValues(tags []Tag, name string) []string {
	var values []string
	for _, tag := range tags {
		if tag.Name == name {
			values = append(values, tag.Value)
		}
	}
	return values
}

func HasTagPrefix(tags []Tag, prefix string) bool {
	for _, tag := range tags {
		if strings.HasPrefix(tag.Name, prefix) {
			return true
		}
	}
	return false
}

const (
	TagOnBoot         = "On-Boot"
	TagBootloader     = "Bootloader"
	TagAuthority      = "Authority"
	TagAction         = "Action"
	TagMessageTime    = "Message-Timestamp"
	TagDataProtocol   = "Data-Protocol"
	TagZoneType       = "Zone-Type"
	TagPath           = "Path"
	TagTitle          = "Title"
	TagName           = "Name"
	TagDescription    = "Description"
	TagType           = "Type"
	TagTopic          = "Topic"
	TagContentType    = "Content-Type"
	TagCreator        = "Creator"
	TagDateCreated    = "Date-Created"
	TagImplements     = "Implements"
	TagCollectionId   = "Collection-Id"
	TagCollectionName = "Collection-Name"
	TagRenderWith     = "Render-With"
	TagThumbnail      = "Thumbnail"
	TagBanner         = "Banner"
	TagLicense        = "License"
	TagAccessFee      = "Access-Fee"
	TagDerivations    = "Derivations"
	TagCommercialUse  = "Commercial-Use"
	TagPaymentMode    = "Payment-Mode"
	TagPaymentAddress = "Payment-Address"
	TagCurrency       = "Currency"
	TagDataModel      = "Data-Model-Training"
	TagLogo           = "Logo"
	TagDataSource     = "Data-Source"
	TagRootSource     = "Root-Source"
	TagStatus         = "Status"
	TagMessage        = "Message"
	TagHandler        = "Handler"
	TagProfileCreator = "Profile-Creator"
	TagProfileProcess = "ProfileProcess"

	ProtocolZone   = "Zone"
	ZoneTypeUser   = "User"
	ImplementsANS  = "ANS-110"
	TypeDocument   = "Document"
	AssetTypeTopic = "Topic"
)
