package notedb

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/pynotedb/doctask/internal/logging"
)

const (
	adminFullName  = "Administrator"
	membersFile    = "members"
	accountFile    = "account.config"
	authorizedKeys = "authorized_keys"
)

// AdminResult describes what CreateAdminUser did.
type AdminResult struct {
	// Created is false when the admin account ref already existed.
	Created  bool
	UserRef  string
	GroupRef string
}

// AdminEmail returns the admin address for a server name.
func AdminEmail(fqdn string) string {
	return "admin@" + fqdn
}

// CreateAdminUser makes sure account 1 exists, is a member of the
// Administrators group and can log in with pubkey. Nothing is changed when
// the account ref is already present.
func (c *Clone) CreateAdminUser(ctx context.Context, email, pubkey string) (AdminResult, error) {
	if email == "" || pubkey == "" {
		return AdminResult{}, errors.New("email and public key are required")
	}
	result := AdminResult{UserRef: UserRef(AdminAccountID)}

	if err := c.git.Fetch(ctx, result.UserRef); err == nil {
		logging.Info().Str("ref", result.UserRef).Msg("Admin user already exists")
		return result, nil
	}

	groupRef, err := c.addAdminToGroup(ctx)
	if err != nil {
		return result, err
	}
	result.GroupRef = groupRef

	if err := c.addAdminExternalIDs(ctx, email); err != nil {
		return result, err
	}
	if err := c.initAdminAccount(ctx, email, pubkey); err != nil {
		return result, err
	}
	result.Created = true
	return result, nil
}

func (c *Clone) addAdminToGroup(ctx context.Context) (string, error) {
	groupID, err := c.GroupID(ctx, AdministratorsGroup)
	if err != nil {
		return "", err
	}

	groupRef := GroupRef(groupID)
	if err := c.git.FetchCheckout(ctx, "group_admin", groupRef); err != nil {
		inverted, invErr := InvertRefID(groupRef)
		if invErr != nil {
			return "", err
		}
		logging.Debug().Str("ref", groupRef).Str("fallback", inverted).Msg("Group ref not found, trying inverted shard")
		if err := c.git.FetchCheckout(ctx, "group_admin", inverted); err != nil {
			return "", err
		}
		groupRef = inverted
	}

	members, err := c.readFile(membersFile)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("failed to read %s: %w", membersFile, err)
	}
	if content, added := AddMember(members, AdminAccountID); added {
		if err := c.writeFile(membersFile, content); err != nil {
			return "", err
		}
	}
	if err := c.git.Add(ctx, membersFile); err != nil {
		return "", err
	}
	if err := c.commitAndPush(ctx, "Add admin user to Administrators group", groupRef); err != nil {
		return "", err
	}
	return groupRef, nil
}

func (c *Clone) addAdminExternalIDs(ctx context.Context, email string) error {
	if err := c.git.FetchCheckout(ctx, "external_ids", ExternalIDsRef); err != nil {
		logging.Debug().Err(err).Msg("No external ids yet, starting a new history")
		if err := c.git.NewOrphan(ctx, "external_ids"); err != nil {
			return err
		}
	}
	ids := append(LoginIDs(AdminUsername, AdminAccountID), MailID(email, AdminAccountID))
	if err := c.writeExternalIDs(ids...); err != nil {
		return err
	}
	if err := c.git.Add(ctx, "."); err != nil {
		return err
	}
	return c.commitAndPush(ctx, "Add admin external id", ExternalIDsRef)
}

func (c *Clone) initAdminAccount(ctx context.Context, email, pubkey string) error {
	if err := c.git.NewOrphan(ctx, "user_admin"); err != nil {
		return err
	}
	if err := c.writeFile(accountFile, AccountConfig(adminFullName, email)); err != nil {
		return err
	}
	if err := c.writeFile(authorizedKeys, pubkey+"\n"); err != nil {
		return err
	}
	if err := c.git.Add(ctx, accountFile, authorizedKeys); err != nil {
		return err
	}
	return c.commitAndPush(ctx, "Initialize admin user", UserRef(AdminAccountID))
}
