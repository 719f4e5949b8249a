// Package auth provides a high-level API for persisting and retrieving chat backend credentials from the system keyring.
package auth

import (
	"github.com/zalando/go-keyring"
)

const (
	service = "songbot"
	user    = "chat-token"
)

// SetToken persists the chat backend access token to the system keyring.
func SetToken(token string) error {
	return keyring.Set(service, user, token)
}

// GetToken retrieves the chat backend access token from the system keyring.
func GetToken() (string, error) {
	return keyring.Get(service, user)
}

// DeleteToken removes the chat backend access token from the system keyring.
func DeleteToken() error {
	return keyring.Delete(service, user)
}
