package mongodb

import (
	"net/url"
	"strings"

	"github.com/st3ffan/hack-the-stackathon/pkg/api/apperr"
)

const (
	AuthSourceExternal = "$external"
	AuthMechanismX509  = "MONGODB-X509"
)

// NormalizeX509URI returns mongoUri with exactly one authSource=$external and
// one authMechanism=MONGODB-X509 query parameter, whatever the case of the
// incoming auth option names. Other parameters and URI
// components are kept; parameters are re-encoded in sorted order, so applying
// it twice yields the same string.
func NormalizeX509URI(mongoUri string) (string, error) {
	mongoUrlParsed, err := url.Parse(mongoUri)
	if err != nil {
		return "", apperr.Configuration("normalize connection string", "invalid connection string: %v", err)
	}
	if mongoUrlParsed.Scheme == "" || mongoUrlParsed.Host == "" {
		return "", apperr.Configuration("normalize connection string", "connection string must have a scheme and host")
	}

	query := mongoUrlParsed.Query()
	// option names are case-insensitive for the driver
	for key := range query {
		if strings.EqualFold(key, "authSource") || strings.EqualFold(key, "authMechanism") {
			query.Del(key)
		}
	}
	query.Set("authSource", AuthSourceExternal)
	query.Set("authMechanism", AuthMechanismX509)
	mongoUrlParsed.RawQuery = query.Encode()

	// the driver rejects "host?opts" without a slash in between
	if mongoUrlParsed.Path == "" {
		mongoUrlParsed.Path = "/"
	}
	return mongoUrlParsed.String(), nil
}

// RedactURI hides user credentials so the connection string can be logged.
func RedactURI(mongoUri string) string {
	mongoUrlParsed, err := url.Parse(mongoUri)
	if err != nil {
		return "<invalid connection string>"
	}
	if mongoUrlParsed.User != nil {
		mongoUrlParsed.User = url.User("redacted")
	}
	return mongoUrlParsed.String()
}
