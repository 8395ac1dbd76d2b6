package notedb

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strings"
)

// External id schemes.
const (
	SchemeGerrit   = "gerrit"
	SchemeUsername = "username"
	SchemeMailto   = "mailto"
)

// SHA1Sum returns the hex SHA-1 of s.
func SHA1Sum(s string) string {
	sum := sha1.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

// ExternalID is one entry of refs/meta/external-ids.
type ExternalID struct {
	Scheme    string
	Name      string
	AccountID string
	Email     string
}

// Key returns "scheme:name".
func (e ExternalID) Key() string {
	return e.Scheme + ":" + e.Name
}

// FileName is the SHA-1 of the key. Gerrit looks external ids up by it.
func (e ExternalID) FileName() string {
	return SHA1Sum(e.Key())
}

// Content renders the git-config style note body.
func (e ExternalID) Content() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[externalId %q]\n", e.Key())
	fmt.Fprintf(&b, "\taccountId = %s\n", e.AccountID)
	if e.Email != "" {
		fmt.Fprintf(&b, "\temail = %s\n", e.Email)
	}
	return b.String()
}

// LoginIDs returns the ssh (gerrit) and http (username) ids of an account.
func LoginIDs(username, accountID string) []ExternalID {
	return []ExternalID{
		{Scheme: SchemeGerrit, Name: username, AccountID: accountID},
		{Scheme: SchemeUsername, Name: username, AccountID: accountID},
	}
}

// MailID returns the mailto id of an account.
func MailID(email, accountID string) ExternalID {
	return ExternalID{Scheme: SchemeMailto, Name: email, AccountID: accountID, Email: email}
}

// AccountConfig renders account.config for a user ref.
func AccountConfig(fullName, email string) string {
	return fmt.Sprintf("[account]\n\tfullName = %s\n\tpreferredEmail = %s\n", fullName, email)
}
