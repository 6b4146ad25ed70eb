package miner

import "github.com/pkg/errors"

// ErrSubmitStale is returned when a solved block's hashPrevBlock no longer
// matches the best-block hash at submission time (spec.md §7's SubmitStale).
var ErrSubmitStale = errors.New("submitted block is stale: prev hash no longer matches best block")

// ErrSubmitRejected wraps whatever the chain processor returned when it
// declined a submitted block (spec.md §7's SubmitRejected). The worker
// logs it and continues.
var ErrSubmitRejected = errors.New("chain processor rejected block")
