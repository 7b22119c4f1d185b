//go:build linux

// File: internal/concurrency/pin_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Linux CPU affinity for worker threads via sched_setaffinity. The caller
// must already hold runtime.LockOSThread.

package concurrency

import "golang.org/x/sys/unix"

// PinCurrentThread binds the calling OS thread to the given CPU. Best
// effort: the returned error is advisory and workers only log it.
func PinCurrentThread(cpuID int) error {
	var set unix.CPUSet
	set.Zero()
	set.Set(cpuID)
	return unix.SchedSetaffinity(0, &set)
}
