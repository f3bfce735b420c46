package serp

// Fields are nil when the API omitted them or sent a value of the wrong type.

// SERPInfo describes the search results page itself.
type SERPInfo struct {
	URL            *string `json:"url,omitempty"`
	Query          *string `json:"query,omitempty"`
	QueryDisplayed *string `json:"query_displayed,omitempty"`
	Location       *string `json:"location,omitempty"`
	TotalResults   *int64  `json:"total_results,omitempty"`
}

// OrganicLink is a standard organic result ("blue link").
// Position counts organic results only; BlockPosition counts all SERP features.
type OrganicLink struct {
	Position      *int    `json:"position,omitempty"`
	BlockPosition *int    `json:"block_position,omitempty"`
	Title         *string `json:"title,omitempty"`
	URL           *string `json:"url,omitempty"`
	URLDisplayed  *string `json:"url_displayed,omitempty"`
	Description   *string `json:"description,omitempty"`
	Date          *string `json:"date,omitempty"`
}

// FeaturedSnippet is the answer box shown above the organic results.
type FeaturedSnippet struct {
	Text      *string `json:"text,omitempty"`
	Title     *string `json:"title,omitempty"`
	SourceURL *string `json:"source_url,omitempty"`
}

// PAAItem is one entry of the "People also ask" accordion.
type PAAItem struct {
	Question  *string `json:"question,omitempty"`
	Answer    *string `json:"answer,omitempty"`
	SourceURL *string `json:"source_url,omitempty"`
}
