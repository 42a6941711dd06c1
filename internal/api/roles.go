package api

import (
	"fmt"
	"net/url"
)

// GetPersonRoles returns the roles a person can be shown with.
func (c *Client) GetPersonRoles(personID string) ([]PersonRole, error) {
	if personID == "" {
		return nil, fmt.Errorf("person id is required")
	}
	data, err := c.get(fmt.Sprintf("/content/get-user-roles/%s/", url.PathEscape(personID)))
	if err != nil {
		return nil, err
	}
	resp, err := decode[personRolesResponse](data)
	if err != nil {
		return nil, err
	}
	return resp.PersonRoles, nil
}
