// File: server/datecache.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package server

import (
	"net/http"
	"time"

	"github.com/momentics/hioload-http/api"
)

// dateCache caches the formatted Date and Expires header values of one
// worker. It is refreshed at most once per second, before each event batch,
// and read by the worker's coroutines through the request context.
type dateCache struct {
	api.Dates
	last int64
}

func (d *dateCache) update(expiry time.Duration) {
	now := time.Now()
	if sec := now.Unix(); sec != d.last {
		d.last = sec
		d.Date = now.UTC().Format(http.TimeFormat)
		d.Expires = now.Add(expiry).UTC().Format(http.TimeFormat)
	}
}
