package metric

import (
	"context"
	"eslteam/src-server/model"
	"eslteam/src-server/utils"
	"time"
)

// Time a query that matches nothing.
func database(as *utils.AppState) (time.Duration, error) {
	start := time.Now()
	if _, err := as.BunDB.NewSelect().
		Model((*model.Event)(nil)).
		Where("id = ?", "").
		Exists(context.Background()); err != nil {
		return 0, err
	}
	return time.Since(start), nil
}
