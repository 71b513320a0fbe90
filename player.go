package spotify

import (
	"context"
	"errors"
	"net/url"
	"strconv"
)

// Device is a device the user can play content on.
type Device struct {
	ID               string `json:"id"`
	IsActive         bool   `json:"is_active"`
	IsPrivateSession bool   `json:"is_private_session"`
	IsRestricted     bool   `json:"is_restricted"`
	Name             string `json:"name"`
	Type             string `json:"type"`
	VolumePercent    int    `json:"volume_percent"`
	SupportsVolume   bool   `json:"supports_volume"`
}

// PlaybackState describes what is playing and where.
type PlaybackState struct {
	Device               Device `json:"device"`
	RepeatState          string `json:"repeat_state"`
	ShuffleState         bool   `json:"shuffle_state"`
	Timestamp            int64  `json:"timestamp"`
	ProgressMs           int    `json:"progress_ms"`
	IsPlaying            bool   `json:"is_playing"`
	Item                 *Track `json:"item"`
	CurrentlyPlayingType string `json:"currently_playing_type"`
}

// PlayHistoryItem is one entry of the recently-played listing.
type PlayHistoryItem struct {
	Track    Track            `json:"track"`
	PlayedAt string           `json:"played_at"`
	Context  *PlaybackContext `json:"context"`
}

// PlaybackContext is the context a track was played from.
type PlaybackContext struct {
	Type         string       `json:"type"`
	Href         string       `json:"href"`
	ExternalURLs ExternalURLs `json:"external_urls"`
	URI          string       `json:"uri"`
}

// Queue is the user's current playback queue.
type Queue struct {
	CurrentlyPlaying *Track  `json:"currently_playing"`
	Queue            []Track `json:"queue"`
}

// GetPlaybackState retrieves the current playback state, or nil when
// nothing is playing (Spotify answers 204 with an empty body).
func (c *Client) GetPlaybackState(ctx context.Context, opts ...RequestOption) (*PlaybackState, error) {
	if err := c.assertAuthorised(); err != nil {
		return nil, err
	}

	var state PlaybackState
	if err := c.get(ctx, "/me/player", queryOf(opts...), &state); err != nil {
		// An empty 204 body means no active playback, not a failure.
		var deserializationErr *DeserializationError
		if errors.As(err, &deserializationErr) && deserializationErr.Body == "" {
			return nil, nil
		}
		return nil, err
	}
	return &state, nil
}

// GetAvailableDevices retrieves the devices available to the user.
func (c *Client) GetAvailableDevices(ctx context.Context) ([]Device, error) {
	if err := c.assertAuthorised(); err != nil {
		return nil, err
	}

	var resp struct {
		Devices []Device `json:"devices"`
	}
	if err := c.get(ctx, "/me/player/devices", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Devices, nil
}

// PlaybackRequest selects what StartResumePlayback should play. A zero
// value resumes the current context.
type PlaybackRequest struct {
	ContextURI string   `json:"context_uri,omitempty"`
	URIs       []string `json:"uris,omitempty"`
	PositionMs int      `json:"position_ms,omitempty"`
}

// StartResumePlayback starts or resumes playback on the user's active
// device.
func (c *Client) StartResumePlayback(ctx context.Context, req PlaybackRequest) error {
	if err := c.assertAuthorised(); err != nil {
		return err
	}

	var res Nil
	return c.put(ctx, "/me/player/play", nil, jsonBody(req), &res)
}

// PausePlayback pauses playback on the user's active device.
func (c *Client) PausePlayback(ctx context.Context) error {
	if err := c.assertAuthorised(); err != nil {
		return err
	}

	var res Nil
	return c.put(ctx, "/me/player/pause", nil, nil, &res)
}

// SkipToNext skips playback to the next track.
func (c *Client) SkipToNext(ctx context.Context) error {
	if err := c.assertAuthorised(); err != nil {
		return err
	}

	var res Nil
	return c.post(ctx, "/me/player/next", nil, nil, &res)
}

// SkipToPrevious skips playback to the previous track.
func (c *Client) SkipToPrevious(ctx context.Context) error {
	if err := c.assertAuthorised(); err != nil {
		return err
	}

	var res Nil
	return c.post(ctx, "/me/player/previous", nil, nil, &res)
}

// SeekToPosition seeks to the given position in the current track.
func (c *Client) SeekToPosition(ctx context.Context, positionMs int) error {
	if err := c.assertAuthorised(); err != nil {
		return err
	}

	query := url.Values{}
	query.Set("position_ms", strconv.Itoa(positionMs))

	var res Nil
	return c.put(ctx, "/me/player/seek", query, nil, &res)
}

// AddToQueue appends an item, given by URI, to the playback queue.
func (c *Client) AddToQueue(ctx context.Context, uri string) error {
	if err := c.assertAuthorised(); err != nil {
		return err
	}

	query := url.Values{}
	query.Set("uri", uri)

	var res Nil
	return c.post(ctx, "/me/player/queue", query, nil, &res)
}

// GetQueue retrieves the user's current playback queue.
func (c *Client) GetQueue(ctx context.Context) (*Queue, error) {
	if err := c.assertAuthorised(); err != nil {
		return nil, err
	}

	var queue Queue
	if err := c.get(ctx, "/me/player/queue", nil, &queue); err != nil {
		return nil, err
	}
	return &queue, nil
}

// GetRecentlyPlayed retrieves one cursor page of the user's recently
// played tracks.
func (c *Client) GetRecentlyPlayed(ctx context.Context, opts ...RequestOption) (*CursorPage[PlayHistoryItem], error) {
	if err := c.assertAuthorised(); err != nil {
		return nil, err
	}

	var page CursorPage[PlayHistoryItem]
	if err := c.get(ctx, "/me/player/recently-played", queryOf(opts...), &page); err != nil {
		return nil, err
	}
	return &page, nil
}
