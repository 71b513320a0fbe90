package spotify

import "context"

// GetAvailableMarkets retrieves the markets where Spotify is available,
// as ISO 3166-1 alpha-2 country codes.
func (c *Client) GetAvailableMarkets(ctx context.Context) ([]string, error) {
	var resp struct {
		Markets []string `json:"markets"`
	}
	if err := c.get(ctx, "/markets", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Markets, nil
}
