package actionkit

import (
	"os"
	"strings"
)

// Environment variables consulted when explicit credentials are not supplied.
const (
	EnvDomain   = "ACTION_KIT_DOMAIN"
	EnvUsername = "ACTION_KIT_USERNAME"
	EnvPassword = "ACTION_KIT_PASSWORD"
)

// Credentials holds the connection configuration for one ActionKit instance.
// Once a Client is constructed from them they never change.
type Credentials struct {
	Domain   string // instance hostname, e.g. "act.example.org"
	Username string
	Password string
}

// ResolveCredentials applies precedence resolution: each explicit value wins
// over its environment variable. It fails with *ConfigurationError if any of
// the three final values is empty. Called once, at client construction.
func ResolveCredentials(explicit Credentials) (Credentials, error) {
	resolved := Credentials{
		Domain:   explicit.Domain,
		Username: explicit.Username,
		Password: explicit.Password,
	}
	if resolved.Domain == "" {
		resolved.Domain = os.Getenv(EnvDomain)
	}
	if resolved.Username == "" {
		resolved.Username = os.Getenv(EnvUsername)
	}
	if resolved.Password == "" {
		resolved.Password = os.Getenv(EnvPassword)
	}

	var missing []string
	if resolved.Domain == "" {
		missing = append(missing, "domain")
	}
	if resolved.Username == "" {
		missing = append(missing, "username")
	}
	if resolved.Password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return Credentials{}, &ConfigurationError{Missing: missing}
	}
	return resolved, nil
}

// baseURL addresses the REST root for the configured domain. A bare domain is
// reached over https; a domain carrying an explicit scheme is used verbatim.
func (c Credentials) baseURL() string {
	host := strings.TrimRight(c.Domain, "/")
	if !strings.Contains(host, "://") {
		host = "https://" + host
	}
	return host + "/rest/v1"
}
