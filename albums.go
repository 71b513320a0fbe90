package spotify

import (
	"context"
	"fmt"
	"net/url"
	"time"
)

// Album is a full album object.
type Album struct {
	AlbumType            string                `json:"album_type"`
	TotalTracks          int                   `json:"total_tracks"`
	AvailableMarkets     []string              `json:"available_markets"`
	ExternalURLs         ExternalURLs          `json:"external_urls"`
	Href                 string                `json:"href"`
	ID                   string                `json:"id"`
	Images               []Image               `json:"images"`
	Name                 string                `json:"name"`
	ReleaseDate          string                `json:"release_date"`
	ReleaseDatePrecision string                `json:"release_date_precision"`
	Restrictions         *Restrictions         `json:"restrictions,omitempty"`
	Type                 string                `json:"type"`
	URI                  string                `json:"uri"`
	Artists              []SimplifiedArtist    `json:"artists"`
	Tracks               Page[SimplifiedTrack] `json:"tracks"`
	Copyrights           []Copyright           `json:"copyrights"`
	ExternalIDs          ExternalIDs           `json:"external_ids"`
	Label                string                `json:"label"`
	Popularity           int                   `json:"popularity"`
}

// SimplifiedAlbum is the album object embedded in other responses.
type SimplifiedAlbum struct {
	AlbumType            string             `json:"album_type"`
	TotalTracks          int                `json:"total_tracks"`
	AvailableMarkets     []string           `json:"available_markets"`
	ExternalURLs         ExternalURLs       `json:"external_urls"`
	Href                 string             `json:"href"`
	ID                   string             `json:"id"`
	Images               []Image            `json:"images"`
	Name                 string             `json:"name"`
	ReleaseDate          string             `json:"release_date"`
	ReleaseDatePrecision string             `json:"release_date_precision"`
	Restrictions         *Restrictions      `json:"restrictions,omitempty"`
	Type                 string             `json:"type"`
	URI                  string             `json:"uri"`
	Artists              []SimplifiedArtist `json:"artists"`
	AlbumGroup           string             `json:"album_group,omitempty"`
}

// SavedAlbum is an album in the current user's library.
type SavedAlbum struct {
	AddedAt time.Time `json:"added_at"`
	Album   Album     `json:"album"`
}

// GetAlbum retrieves a single album by its Spotify ID.
func (c *Client) GetAlbum(ctx context.Context, id string, opts ...RequestOption) (*Album, error) {
	var album Album
	if err := c.get(ctx, fmt.Sprintf("/albums/%s", id), queryOf(opts...), &album); err != nil {
		return nil, err
	}
	return &album, nil
}

// GetAlbums retrieves several albums at once, up to 20 IDs.
func (c *Client) GetAlbums(ctx context.Context, ids []string, opts ...RequestOption) ([]Album, error) {
	query := queryOf(opts...)
	query.Set("ids", joinIDs(ids))

	var resp struct {
		Albums []Album `json:"albums"`
	}
	if err := c.get(ctx, "/albums", query, &resp); err != nil {
		return nil, err
	}
	return resp.Albums, nil
}

// GetAlbumTracks retrieves one page of an album's tracks.
func (c *Client) GetAlbumTracks(ctx context.Context, id string, opts ...RequestOption) (*Page[SimplifiedTrack], error) {
	var page Page[SimplifiedTrack]
	if err := c.get(ctx, fmt.Sprintf("/albums/%s/tracks", id), queryOf(opts...), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetSavedAlbums retrieves one page of the albums saved in the current
// user's library.
func (c *Client) GetSavedAlbums(ctx context.Context, opts ...RequestOption) (*Page[SavedAlbum], error) {
	if err := c.assertAuthorised(); err != nil {
		return nil, err
	}

	var page Page[SavedAlbum]
	if err := c.get(ctx, "/me/albums", queryOf(opts...), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// SaveAlbums adds albums to the current user's library, up to 20 IDs.
func (c *Client) SaveAlbums(ctx context.Context, ids []string) error {
	if err := c.assertAuthorised(); err != nil {
		return err
	}

	var res Nil
	return c.put(ctx, "/me/albums", nil, jsonBody(idsBody{IDs: ids}), &res)
}

// RemoveSavedAlbums removes albums from the current user's library.
func (c *Client) RemoveSavedAlbums(ctx context.Context, ids []string) error {
	if err := c.assertAuthorised(); err != nil {
		return err
	}

	var res Nil
	return c.delete(ctx, "/me/albums", nil, jsonBody(idsBody{IDs: ids}), &res)
}

// CheckSavedAlbums reports, for each ID, whether the album is saved in
// the current user's library.
func (c *Client) CheckSavedAlbums(ctx context.Context, ids []string) ([]bool, error) {
	if err := c.assertAuthorised(); err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("ids", joinIDs(ids))

	var saved []bool
	if err := c.get(ctx, "/me/albums/contains", query, &saved); err != nil {
		return nil, err
	}
	return saved, nil
}

// GetNewReleases retrieves one page of newly released albums.
func (c *Client) GetNewReleases(ctx context.Context, opts ...RequestOption) (*Page[SimplifiedAlbum], error) {
	var resp struct {
		Albums Page[SimplifiedAlbum] `json:"albums"`
	}
	if err := c.get(ctx, "/browse/new-releases", queryOf(opts...), &resp); err != nil {
		return nil, err
	}
	return &resp.Albums, nil
}

// idsBody is the JSON body shape shared by the library save/remove
// endpoints.
type idsBody struct {
	IDs []string `json:"ids"`
}
