package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/linchiawei/twstore-linebot-go/internal/logger"
)

// Seed loads businesses from a JSON file into an empty store. A store
// that already has rows is left untouched so redeploys do not clobber
// later edits. A missing seed file is not an error.
func (db *DB) Seed(ctx context.Context, seedPath string, log *logger.Logger) error {
	count, err := db.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		log.WithField("count", count).Debug("store already populated, skipping seed")
		return nil
	}

	data, err := os.ReadFile(seedPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.WithField("path", seedPath).Warn("no seed file found, store starts empty")
			return nil
		}
		return fmt.Errorf("read seed file: %w", err)
	}

	var businesses []Business
	if err := json.Unmarshal(data, &businesses); err != nil {
		return fmt.Errorf("decode seed file: %w", err)
	}

	for i := range businesses {
		if err := db.Save(ctx, &businesses[i]); err != nil {
			return err
		}
	}

	log.WithFields(map[string]any{
		"path":  seedPath,
		"count": len(businesses),
	}).Info("seeded business store")
	return nil
}
