package selection

import (
	"encoding/json"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/sweetlist/internal/shared"
)

// StorageKey is the session storage key holding the selection.
const StorageKey = "selectedRecipes"

// Storage is a session-scoped string key/value store.
type Storage interface {
	// GetItem returns the value under key and whether it exists.
	GetItem(key string) (string, bool, error)
	// SetItem stores value under key, replacing any previous value.
	SetItem(key, value string) error
}

// Adapter loads and saves a [Set] in [Storage]. It never reports failures to its caller.
type Adapter struct {
	storage Storage
	logger  *log.Logger
}

// NewAdapter creates an Adapter over storage. A nil logger discards log output.
func NewAdapter(storage Storage, logger *log.Logger) *Adapter {
	if logger == nil {
		logger = shared.DiscardLogger()
	}
	return &Adapter{storage: storage, logger: logger}
}

// Load returns the persisted set, or an empty set when the key is absent, the value is not a JSON array of
// integers, or the storage cannot be read.
func (a *Adapter) Load() Set {
	if a.storage == nil {
		return NewSet()
	}

	raw, ok, err := a.storage.GetItem(StorageKey)
	if err != nil {
		a.logger.Warn("selection storage unavailable", "error", err)
		return NewSet()
	}
	if !ok {
		return NewSet()
	}

	var ids []int
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		a.logger.Debug("discarding malformed selection", "value", raw, "error", err)
		return NewSet()
	}

	return NewSet(ids...)
}

// Save writes set as a JSON array. Write failures are logged and dropped.
func (a *Adapter) Save(set Set) {
	if a.storage == nil {
		return
	}

	data, err := json.Marshal(set.IDs())
	if err != nil {
		a.logger.Warn("failed to encode selection", "error", err)
		return
	}

	if err := a.storage.SetItem(StorageKey, string(data)); err != nil {
		a.logger.Warn("failed to save selection", "error", err)
	}
}
