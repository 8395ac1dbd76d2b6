// Package notedb edits the All-Users repository of a Gerrit server that keeps
// its accounts and groups in NoteDb.
package notedb

import (
	"fmt"
	"strings"
)

const (
	MetaConfigRef  = "refs/meta/config"
	ExternalIDsRef = "refs/meta/external-ids"

	AdminAccountID      = "1"
	AdminUsername       = "admin"
	AdministratorsGroup = "Administrators"
)

// ShardID returns the sharded form of id used inside Gerrit refs: the last two
// characters, a slash, then id. Single characters are padded with a zero.
func ShardID(id string) string {
	if len(id) < 2 {
		return "0" + id + "/" + id
	}
	return id[len(id)-2:] + "/" + id
}

// UserRef returns the ref holding the account with the given id.
func UserRef(id string) string {
	return "refs/users/" + ShardID(id)
}

// GroupRef returns the ref holding the group with the given id.
func GroupRef(id string) string {
	return "refs/groups/" + ShardID(id)
}

// InvertRefID rewrites a sharded ref to use the first two characters of the id
// instead of the last two. Group refs keyed by UUID use that layout.
func InvertRefID(ref string) (string, error) {
	parts := strings.Split(ref, "/")
	if len(parts) != 4 || len(parts[3]) < 2 {
		return "", fmt.Errorf("not a sharded ref: %s", ref)
	}
	id := parts[3]
	return strings.Join([]string{parts[0], parts[1], id[:2], id}, "/"), nil
}
