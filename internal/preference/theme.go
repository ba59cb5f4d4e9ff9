// Package preference persists the single per-user UI preference: the theme.
package preference

import (
	"errors"

	"github.com/studysync/diary/internal/infrastructure/driver"
)

// themes
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

const themeKeyPrefix = "theme:"

// ThemeStore per-user theme preference on the KV store
type ThemeStore struct {
	kv driver.KeyValueDB
}

// NewThemeStore .
func NewThemeStore(kv driver.KeyValueDB) *ThemeStore {
	return &ThemeStore{kv: kv}
}

// Get current theme, light when never set
func (ts *ThemeStore) Get(ownerID string) (string, error) {
	value, err := ts.kv.Get(themeKeyPrefix + ownerID)
	if err != nil {
		var notFound *driver.ErrKeyNotFound
		if errors.As(err, &notFound) {
			return ThemeLight, nil
		}
		return ThemeLight, err
	}
	if value != ThemeDark {
		return ThemeLight, nil
	}
	return ThemeDark, nil
}

// Toggle flip the theme and return the new value
func (ts *ThemeStore) Toggle(ownerID string) (string, error) {
	current, err := ts.Get(ownerID)
	if err != nil {
		return current, err
	}
	next := ThemeLight
	if current == ThemeLight {
		next = ThemeDark
	}
	if err := ts.kv.Set(themeKeyPrefix+ownerID, next); err != nil {
		return current, err
	}
	return next, nil
}
