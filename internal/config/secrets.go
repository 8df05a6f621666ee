package config

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// KeyringService is the OS keyring service under which profile passwords are
// stored, keyed by profile name.
const KeyringService = "sqlcli"

// ResolvePassword fills an empty Password from the OS keyring. A missing
// keyring entry is not an error.
func ResolvePassword(conn *Connection) error {
	if conn.Password != "" || conn.Name == "" {
		return nil
	}
	pw, err := keyring.Get(KeyringService, conn.Name)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("keyring: %w", err)
	}
	conn.Password = pw
	return nil
}

// StorePassword moves the profile's password into the OS keyring and clears
// it from the profile, so it is never written to the config file.
func StorePassword(conn *Connection) error {
	if conn.Password == "" {
		return nil
	}
	if err := keyring.Set(KeyringService, conn.Name, conn.Password); err != nil {
		return fmt.Errorf("keyring: %w", err)
	}
	conn.Password = ""
	return nil
}
