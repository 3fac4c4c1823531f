package auth

import "golang.org/x/oauth2/clientcredentials"

// Conf holds the client-credentials grant settings for the booking
// platform's token endpoint.
type Conf struct {
	ClientID     string   `json:"client_id"`
	ClientSecret string   `json:"client_secret"`
	AuthURL      string   `json:"auth_url"`
	Scopes       []string `json:"scopes"`
}

// Enabled reports whether credentials are configured at all. Without
// them the booking client sends unauthenticated requests.
func (c Conf) Enabled() bool { return c.ClientID != "" }

func (c Conf) grant() clientcredentials.Config {
	return clientcredentials.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		TokenURL:     c.AuthURL,
		Scopes:       c.Scopes,
	}
}
