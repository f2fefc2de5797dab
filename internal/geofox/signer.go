package geofox

import (
	"crypto/hmac"
	"crypto/sha1" // #nosec G505 -- HmacSHA1 is mandated by the GTI API
	"encoding/base64"
)

// AuthType is the value of the geofox-auth-type header matching Sign.
const AuthType = "HmacSHA1"

// Sign returns the base64 encoded HMAC-SHA1 of body keyed by secret. body must be
// the exact bytes sent on the wire.
func Sign(body []byte, secret string) (string, error) {
	if secret == "" {
		return "", configurationFailure("geofox secret is empty")
	}

	mac := hmac.New(sha1.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil)), nil
}
