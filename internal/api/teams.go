package api

// ListTeams fetches the flat team list served at path.
func (c *Client) ListTeams(path string) ([]Team, error) {
	if path == "" {
		path = DefaultTeamsPath
	}
	data, err := c.get(path)
	if err != nil {
		return nil, err
	}
	return decode[[]Team](data)
}
