package api

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// ProviderUser is the identity the external provider reports for an
// access token. Field names follow the common OAuth2 userinfo shape.
type ProviderUser struct {
	ID       string  `json:"id"`
	Username string  `json:"username"`
	Name     *string `json:"name"`
	Email    *string `json:"email"`
}

// DisplayName picks the best available name for leaderboards.
func (u *ProviderUser) DisplayName() string {
	if u.Name != nil && *u.Name != "" {
		return *u.Name
	}
	if u.Username != "" {
		return u.Username
	}
	if u.Email != nil && *u.Email != "" {
		return *u.Email
	}
	return u.ID
}

func (a *API) fetchProviderUser(accessToken string) (*ProviderUser, error) {
	req, err := http.NewRequest("GET", a.config.OAuthUserInfoURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("identity provider returned status %d", resp.StatusCode)
	}

	var user ProviderUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, err
	}
	if user.ID == "" {
		return nil, fmt.Errorf("identity provider returned no user id")
	}

	return &user, nil
}
