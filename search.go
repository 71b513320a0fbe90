package spotify

import (
	"context"
	"strings"
)

// SearchType limits a search to particular kinds of content.
type SearchType string

const (
	SearchAlbum     SearchType = "album"
	SearchArtist    SearchType = "artist"
	SearchPlaylist  SearchType = "playlist"
	SearchTrack     SearchType = "track"
	SearchShow      SearchType = "show"
	SearchEpisode   SearchType = "episode"
	SearchAudiobook SearchType = "audiobook"
)

// SearchResults holds one page of results per requested type. Types that
// were not requested are nil.
type SearchResults struct {
	Albums     *Page[SimplifiedAlbum]     `json:"albums,omitempty"`
	Artists    *Page[Artist]              `json:"artists,omitempty"`
	Playlists  *Page[SimplifiedPlaylist]  `json:"playlists,omitempty"`
	Tracks     *Page[Track]               `json:"tracks,omitempty"`
	Audiobooks *Page[SimplifiedAudiobook] `json:"audiobooks,omitempty"`
}

// Search runs a catalogue search for the given query. At least one
// search type is required; several may be combined.
func (c *Client) Search(ctx context.Context, query string, types []SearchType, opts ...RequestOption) (*SearchResults, error) {
	typeNames := make([]string, len(types))
	for i, t := range types {
		typeNames[i] = string(t)
	}

	q := queryOf(opts...)
	q.Set("q", query)
	q.Set("type", strings.Join(typeNames, ","))

	var results SearchResults
	if err := c.get(ctx, "/search", q, &results); err != nil {
		return nil, err
	}
	return &results, nil
}
