package spotify

import (
	"context"
	"fmt"
	"net/url"
	"time"
)

// Track is a full track object.
type Track struct {
	Album            SimplifiedAlbum    `json:"album"`
	Artists          []SimplifiedArtist `json:"artists"`
	AvailableMarkets []string           `json:"available_markets"`
	DiscNumber       int                `json:"disc_number"`
	DurationMs       int                `json:"duration_ms"`
	Explicit         bool               `json:"explicit"`
	ExternalIDs      ExternalIDs        `json:"external_ids"`
	ExternalURLs     ExternalURLs       `json:"external_urls"`
	Href             string             `json:"href"`
	ID               string             `json:"id"`
	IsPlayable       bool               `json:"is_playable,omitempty"`
	Restrictions     *Restrictions      `json:"restrictions,omitempty"`
	Name             string             `json:"name"`
	Popularity       int                `json:"popularity"`
	PreviewURL       string             `json:"preview_url"`
	TrackNumber      int                `json:"track_number"`
	Type             string             `json:"type"`
	URI              string             `json:"uri"`
	IsLocal          bool               `json:"is_local"`
}

// SimplifiedTrack is the track object embedded in album responses.
type SimplifiedTrack struct {
	Artists          []SimplifiedArtist `json:"artists"`
	AvailableMarkets []string           `json:"available_markets"`
	DiscNumber       int                `json:"disc_number"`
	DurationMs       int                `json:"duration_ms"`
	Explicit         bool               `json:"explicit"`
	ExternalURLs     ExternalURLs       `json:"external_urls"`
	Href             string             `json:"href"`
	ID               string             `json:"id"`
	IsPlayable       bool               `json:"is_playable,omitempty"`
	Restrictions     *Restrictions      `json:"restrictions,omitempty"`
	Name             string             `json:"name"`
	PreviewURL       string             `json:"preview_url"`
	TrackNumber      int                `json:"track_number"`
	Type             string             `json:"type"`
	URI              string             `json:"uri"`
	IsLocal          bool               `json:"is_local"`
}

// SavedTrack is a track in the current user's library.
type SavedTrack struct {
	AddedAt time.Time `json:"added_at"`
	Track   Track     `json:"track"`
}

// GetTrack retrieves a single track by its Spotify ID.
func (c *Client) GetTrack(ctx context.Context, id string, opts ...RequestOption) (*Track, error) {
	var track Track
	if err := c.get(ctx, fmt.Sprintf("/tracks/%s", id), queryOf(opts...), &track); err != nil {
		return nil, err
	}
	return &track, nil
}

// GetTracks retrieves several tracks at once, up to 50 IDs.
func (c *Client) GetTracks(ctx context.Context, ids []string, opts ...RequestOption) ([]Track, error) {
	query := queryOf(opts...)
	query.Set("ids", joinIDs(ids))

	var resp struct {
		Tracks []Track `json:"tracks"`
	}
	if err := c.get(ctx, "/tracks", query, &resp); err != nil {
		return nil, err
	}
	return resp.Tracks, nil
}

// GetSavedTracks retrieves one page of the tracks saved in the current
// user's library.
func (c *Client) GetSavedTracks(ctx context.Context, opts ...RequestOption) (*Page[SavedTrack], error) {
	if err := c.assertAuthorised(); err != nil {
		return nil, err
	}

	var page Page[SavedTrack]
	if err := c.get(ctx, "/me/tracks", queryOf(opts...), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// SaveTracks adds tracks to the current user's library, up to 50 IDs.
func (c *Client) SaveTracks(ctx context.Context, ids []string) error {
	if err := c.assertAuthorised(); err != nil {
		return err
	}

	var res Nil
	return c.put(ctx, "/me/tracks", nil, jsonBody(idsBody{IDs: ids}), &res)
}

// RemoveSavedTracks removes tracks from the current user's library.
func (c *Client) RemoveSavedTracks(ctx context.Context, ids []string) error {
	if err := c.assertAuthorised(); err != nil {
		return err
	}

	var res Nil
	return c.delete(ctx, "/me/tracks", nil, jsonBody(idsBody{IDs: ids}), &res)
}

// CheckSavedTracks reports, for each ID, whether the track is saved in
// the current user's library.
func (c *Client) CheckSavedTracks(ctx context.Context, ids []string) ([]bool, error) {
	if err := c.assertAuthorised(); err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("ids", joinIDs(ids))

	var saved []bool
	if err := c.get(ctx, "/me/tracks/contains", query, &saved); err != nil {
		return nil, err
	}
	return saved, nil
}
