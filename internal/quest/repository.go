package quest

import (
	"encoding/json"
	"fmt"

	"github.com/julianstephens/dailyquest/internal/constants"
	"github.com/julianstephens/dailyquest/internal/logger"
	"github.com/julianstephens/dailyquest/internal/models"
	"github.com/julianstephens/dailyquest/internal/storage"
)

// Repository reads and writes the quest list under a single store key.
type Repository struct {
	kv storage.KV
}

func NewRepository(kv storage.KV) *Repository {
	return &Repository{kv: kv}
}

// Load returns the stored collection. A missing, unreadable or malformed
// value yields the default seed with seeded=true.
func (r *Repository) Load() (c models.Collection, seeded bool) {
	raw, ok, err := r.kv.Get(constants.QuestsKey)
	if err != nil {
		logger.Warn("Failed to read quests, using default list", "error", err)
		return DefaultSeed(), true
	}
	if !ok {
		return DefaultSeed(), true
	}

	var loaded models.Collection
	if err := json.Unmarshal([]byte(raw), &loaded); err != nil || loaded == nil {
		logger.Warn("Stored quests are malformed, using default list", "error", err)
		return DefaultSeed(), true
	}
	return Normalize(loaded), false
}

// Save persists the whole collection.
func (r *Repository) Save(c models.Collection) error {
	if c == nil {
		c = models.Collection{}
	}
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to serialize quests: %w", err)
	}
	return storage.SetOrWrap(r.kv, constants.QuestsKey, string(data))
}
