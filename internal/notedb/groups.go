package notedb

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// ParseGroupID scans the groups file of refs/meta/config and returns the id
// of the group called name. Each line is "<id> <name>"; the name is the last
// whitespace-separated token. ok is false unless exactly one line matches.
func ParseGroupID(r io.Reader, name string) (id string, ok bool, err error) {
	var matches []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) > 0 && fields[len(fields)-1] == name {
			matches = append(matches, fields[0])
		}
	}
	if err := scanner.Err(); err != nil {
		return "", false, fmt.Errorf("failed to read groups: %w", err)
	}
	if len(matches) != 1 {
		return "", false, nil
	}
	return matches[0], true, nil
}

// AddMember returns members with accountID appended, one id per line. Blank
// lines are dropped. added is false when the id was already listed.
func AddMember(members, accountID string) (content string, added bool) {
	ids := strings.Fields(members)
	for _, id := range ids {
		if id == accountID {
			return strings.Join(ids, "\n") + "\n", false
		}
	}
	ids = append(ids, accountID)
	return strings.Join(ids, "\n") + "\n", true
}
