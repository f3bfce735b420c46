// Package serp maps VALUE SERP web search payloads into typed records.
//
// A WebSERP keeps an immutable copy of the JSON it was built from and
// recomputes every accessor from that copy, so accessors can be called
// repeatedly and in any order. Missing or mistyped keys never fail: they
// come back as nil fields, nil results or empty slices as documented on
// each accessor.
package serp

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

var ErrNotObject = errors.New("serp: payload is not a JSON object")

// WebSERP is a read-only view over a web search response.
type WebSERP struct {
	raw []byte
}

// ParseWebSERP wraps a JSON object. The input is copied.
func ParseWebSERP(data []byte) (*WebSERP, error) {
	if !gjson.ValidBytes(data) || !gjson.ParseBytes(data).IsObject() {
		return nil, ErrNotObject
	}
	raw := make([]byte, len(data))
	copy(raw, data)
	return &WebSERP{raw: raw}, nil
}

// NewWebSERP snapshots an already decoded payload. A nil map is an empty page.
func NewWebSERP(raw map[string]any) (*WebSERP, error) {
	if raw == nil {
		return &WebSERP{raw: []byte("{}")}, nil
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("serp: encode payload: %w", err)
	}
	return &WebSERP{raw: data}, nil
}

// Raw decodes a fresh copy of the payload; changing it does not affect s.
func (s *WebSERP) Raw() map[string]any {
	var m map[string]any
	if err := json.Unmarshal(s.raw, &m); err != nil {
		return map[string]any{}
	}
	return m
}

func (s *WebSERP) MarshalJSON() ([]byte, error) {
	out := make([]byte, len(s.raw))
	copy(out, s.raw)
	return out, nil
}

func (s *WebSERP) root() gjson.Result {
	return gjson.ParseBytes(s.raw)
}

// Info reads search_metadata, search_parameters and search_information.
func (s *WebSERP) Info() SERPInfo {
	root := s.root()
	meta := root.Get("search_metadata")
	params := root.Get("search_parameters")
	info := root.Get("search_information")

	return SERPInfo{
		URL:            optString(meta.Get("engine_url")),
		Query:          optString(params.Get("q")),
		QueryDisplayed: optString(info.Get("query_displayed")),
		Location:       optString(params.Get("location")),
		TotalResults:   optInt64(info.Get("total_results")),
	}
}

// Links returns organic_results in API ranking order. Never nil.
func (s *WebSERP) Links() []OrganicLink {
	entries := objects(s.root().Get("organic_results"))
	links := make([]OrganicLink, 0, len(entries))
	for _, e := range entries {
		links = append(links, OrganicLink{
			Position:      optInt(e.Get("position")),
			BlockPosition: optInt(e.Get("block_position")),
			Title:         optString(e.Get("title")),
			URL:           optString(e.Get("link")),
			URLDisplayed:  optString(e.Get("displayed_link")),
			Description:   optString(e.Get("snippet")),
			Date:          optString(e.Get("date")),
		})
	}
	return links
}

// FeaturedSnippet reads the first answer of answer_box; nil when the box or
// its answers are absent.
func (s *WebSERP) FeaturedSnippet() *FeaturedSnippet {
	answers := s.root().Get("answer_box.answers")
	if !answers.IsArray() {
		return nil
	}
	first := answers.Get("0")
	if !first.IsObject() {
		return nil
	}
	source := first.Get("source")
	return &FeaturedSnippet{
		Text:      optString(first.Get("answer")),
		Title:     optString(source.Get("title")),
		SourceURL: optString(source.Get("link")),
	}
}

// RelatedSearches returns the distinct non-empty queries of related_searches
// in first-seen order. Nil means the API sent no related searches at all.
func (s *WebSERP) RelatedSearches() []string {
	entries := s.root().Get("related_searches")
	if !entries.IsArray() || len(entries.Array()) == 0 {
		return nil
	}

	seen := make(map[string]struct{})
	out := []string{}
	for _, e := range objects(entries) {
		q := e.Get("query")
		if q.Type != gjson.String || q.Str == "" {
			continue
		}
		if _, dup := seen[q.Str]; dup {
			continue
		}
		seen[q.Str] = struct{}{}
		out = append(out, q.Str)
	}
	return out
}

// PeopleAlsoAsk maps related_questions; nil when absent or empty.
func (s *WebSERP) PeopleAlsoAsk() []PAAItem {
	entries := s.root().Get("related_questions")
	if !entries.IsArray() || len(entries.Array()) == 0 {
		return nil
	}

	var items []PAAItem
	for _, e := range objects(entries) {
		items = append(items, PAAItem{
			Question:  optString(e.Get("question")),
			Answer:    optString(e.Get("answer")),
			SourceURL: optString(e.Get("source.link")),
		})
	}
	return items
}
