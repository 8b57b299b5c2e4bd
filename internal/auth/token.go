package auth

import (
	"encoding/base64"
	"strings"
)

// tokenSeparator joins username and password inside the token. It is not
// escaped, so a username containing ':' cannot round-trip; passwords may
// contain it because decoding splits on the first occurrence.
const tokenSeparator = ":"

// EncodeToken packs credentials into the opaque cookie value.
//
// This is an obfuscation layer, not a cryptographic credential: anyone
// holding the token can recover the plaintext pair, and there is no
// integrity protection. Validity comes from re-checking the credentials
// against the dataset on every request.
func EncodeToken(username, password string) string {
	return base64.StdEncoding.EncodeToString([]byte(username + tokenSeparator + password))
}

// DecodeToken recovers the credential pair from a token. ok is false when
// the token is not valid base64 or carries no separator; malformed input
// never panics or errors.
func DecodeToken(token string) (username, password string, ok bool) {
	decoded, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return "", "", false
	}

	username, password, found := strings.Cut(string(decoded), tokenSeparator)
	if !found {
		return "", "", false
	}
	return username, password, true
}
