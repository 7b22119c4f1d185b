// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package server implements the per-worker I/O reactor core of hioload-http:
// the process-wide connection table, the coroutine-per-connection request
// loop, the idle-timeout death queue, the accept-nudge hand-off from the
// acceptor, and the worker lifecycle. HTTP parsing and dispatch are plugged
// in through api.Processor; the acceptor loop feeding ScheduleClient lives
// outside this package.
package server
