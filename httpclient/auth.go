package httpclient

import "net/http"

// BasicCredentials authenticate every request a Client sends.
type BasicCredentials struct {
	Username string
	Password string
}

// BasicAuth returns credentials for the WebDAV admin tree.
func BasicAuth(username, password string) *BasicCredentials {
	return &BasicCredentials{Username: username, Password: password}
}

func (c *BasicCredentials) apply(req *http.Request) {
	if c != nil {
		req.SetBasicAuth(c.Username, c.Password)
	}
}
