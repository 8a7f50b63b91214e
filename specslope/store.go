package specslope

import (
	"context"
	"errors"
)

// ErrCacheMiss reports that a ResultStore holds no record for the key.
var ErrCacheMiss = errors.New("no cached slope series for key")

// ResultStore persists one SlopeSeries per storage key. Load returns
// ErrCacheMiss (possibly wrapped) when the key has no record; any other
// error aborts the run that touched the store. Save overwrites whatever
// the key held before.
type ResultStore interface {
	Load(ctx context.Context, key string) (*SlopeSeries, error)
	Save(ctx context.Context, key string, series *SlopeSeries) error
}
