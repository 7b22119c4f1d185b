// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package api defines the shared contracts of the hioload-http reactor core:
// coroutine yield outcomes, connection and request flag sets, the request
// processor boundary, and common error values. Implementations live in the
// reactor, server, and internal packages.
package api
