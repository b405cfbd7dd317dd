// Package state persists the selection state of datepicker messages, keyed by
// message.
package state

import (
	"context"
	"errors"

	"github.com/username/datepicker-bot/internal/menu"
)

// ErrEmptyKey is returned when a store is asked for the empty key
var ErrEmptyKey = errors.New("state: empty key")

// Store keeps one menu.State per message key. Load reports false for keys
// that were never saved or have expired.
type Store interface {
	Load(ctx context.Context, key string) (menu.State, bool, error)
	Save(ctx context.Context, key string, s menu.State) error
	Delete(ctx context.Context, key string) error
}
