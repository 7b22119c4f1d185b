// File: internal/concurrency/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Concurrency primitives for the hioload-http core: the lock-free SPSC ring
// carrying accepted descriptors from the acceptor to a worker, the cyclic
// barrier synchronizing worker start-up and shutdown, and best-effort CPU
// pinning for worker threads.
package concurrency
