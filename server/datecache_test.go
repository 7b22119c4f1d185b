// File: server/datecache_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package server

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateCacheFormatsBothHeaders(t *testing.T) {
	var d dateCache
	d.update(time.Hour)

	date, err := http.ParseTime(d.Date)
	require.NoError(t, err)
	expires, err := http.ParseTime(d.Expires)
	require.NoError(t, err)

	assert.Equal(t, time.Hour, expires.Sub(date))
	assert.WithinDuration(t, time.Now(), date, 2*time.Second)
}

func TestDateCacheKeyedByEpochSecond(t *testing.T) {
	var d dateCache
	d.update(time.Hour)
	first := d.Date

	// Same epoch second: no reformatting.
	d.update(time.Hour)
	assert.Equal(t, first, d.Date)

	// Forcing a stale key refreshes the strings.
	d.last = 0
	d.update(time.Hour)
	date, err := http.ParseTime(d.Date)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), date, 2*time.Second)
}
