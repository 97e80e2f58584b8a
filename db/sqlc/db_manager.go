package sqlc

import (
	"errors"
	"time"
)

// Every analytics query runs under this deadline.
const QuerierCtxTimeout = time.Second * 5

var ErrAnalyticsDisabled = errors.New("analytics is disabled")

// DbManager groups the managers built on one connection pool.
type DbManager struct {
	Analytics *AnalyticsManager
}

func NewDbManager(db DBTX) DbManager {
	return DbManager{
		Analytics: NewAnalyticsManager(New(db)),
	}
}
