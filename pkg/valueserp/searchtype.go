package valueserp

// SearchType selects a vertical other than the default web results.
type SearchType string

const (
	SearchTypeNews         SearchType = "news"
	SearchTypeImages       SearchType = "images"
	SearchTypeVideos       SearchType = "videos"
	SearchTypePlaces       SearchType = "places"
	SearchTypePlaceDetails SearchType = "place_details"
	SearchTypeShopping     SearchType = "shopping"
	SearchTypeProduct      SearchType = "product"
)

func (t SearchType) IsValid() bool {
	switch t {
	case SearchTypeNews, SearchTypeImages, SearchTypeVideos, SearchTypePlaces,
		SearchTypePlaceDetails, SearchTypeShopping, SearchTypeProduct:
		return true
	}
	return false
}

func (t SearchType) String() string {
	return string(t)
}
