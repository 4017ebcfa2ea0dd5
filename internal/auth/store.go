package auth

import (
	"fmt"
	"os"
	"path/filepath"
)

// GetTokenPath returns the path where the login token is stored
func GetTokenPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(homeDir, ".local", "share", "dwcli", "login-token"), nil
}

// SaveToken saves the login token to disk
func SaveToken(token string) error {
	tokenPath, err := GetTokenPath()
	if err != nil {
		return err
	}

	dir := filepath.Dir(tokenPath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	// Write token with restricted permissions
	if err := os.WriteFile(tokenPath, []byte(token), 0600); err != nil {
		return fmt.Errorf("failed to write token: %w", err)
	}

	return nil
}

// LoadToken loads the login token from disk
func LoadToken() (string, error) {
	tokenPath, err := GetTokenPath()
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(tokenPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("no stored token, run 'dwcli gentoken --save' first")
		}
		return "", fmt.Errorf("failed to read token: %w", err)
	}

	token := string(data)
	if token == "" {
		return "", fmt.Errorf("token file is empty, run 'dwcli gentoken --save' again")
	}

	return token, nil
}

// DeleteToken removes the stored login token
func DeleteToken() error {
	tokenPath, err := GetTokenPath()
	if err != nil {
		return err
	}

	if err := os.Remove(tokenPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete token: %w", err)
	}

	return nil
}

// HasStoredToken checks if a login token exists on disk
func HasStoredToken() bool {
	token, err := LoadToken()
	return err == nil && token != ""
}
