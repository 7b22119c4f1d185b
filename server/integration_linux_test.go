//go:build linux

// File: server/integration_linux_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// End-to-end coverage over real epoll: a socketpair stands in for an
// accepted TCP connection, the test side plays the client.

package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/momentics/hioload-http/api"
)

// echoProcessor reads one message and writes it back, keeping the
// connection alive between messages.
func echoProcessor(req *api.Request, buf *api.Value, next []byte) []byte {
	req.Conn.SetMustRead(true)
	for {
		n, err := unix.Read(req.FD, buf.Buf)
		if n > 0 {
			buf.Len = n
			break
		}
		if n == 0 || (err != nil && err != unix.EAGAIN) {
			req.Coro.Yield(api.CoroAbort)
		}
		req.Coro.Yield(api.CoroMayResume)
	}
	req.Conn.SetMustRead(false)
	req.Conn.SetKeepAlive(true)

	req.Response.Write(buf.Bytes())
	out := req.Response.Bytes()
	for len(out) > 0 {
		n, err := unix.Write(req.FD, out)
		if n > 0 {
			out = out[n:]
			continue
		}
		if err != unix.EAGAIN {
			req.Coro.Yield(api.CoroAbort)
		}
		req.Coro.Yield(api.CoroMayResume)
	}
	return nil
}

func startEchoServer(t *testing.T, cfg Config) *Server {
	t.Helper()
	srv, err := New(cfg, api.ProcessorFunc(echoProcessor))
	require.NoError(t, err)
	require.NoError(t, srv.Start())
	t.Cleanup(srv.Shutdown)
	return srv
}

// clientPair returns (client fd, server fd); the server fd is non-blocking
// as the acceptor would leave it.
func clientPair(t *testing.T) (int, int) {
	t.Helper()
	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM, 0)
	require.NoError(t, err)
	require.NoError(t, unix.SetNonblock(fds[1], true))
	return fds[0], fds[1]
}

func readWithDeadline(t *testing.T, fd int, deadline time.Duration) []byte {
	t.Helper()
	pfd := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
	n, err := unix.Poll(pfd, int(deadline.Milliseconds()))
	require.NoError(t, err)
	require.NotZero(t, n, "peer did not answer within %v", deadline)

	buf := make([]byte, 4096)
	n, err = unix.Read(fd, buf)
	require.NoError(t, err)
	return buf[:n]
}

func TestEchoRoundTripOverEpoll(t *testing.T) {
	cfg := testConfig()
	srv := startEchoServer(t, cfg)

	client, serverFD := clientPair(t)
	defer unix.Close(client)

	require.NoError(t, srv.ScheduleClient(serverFD))

	_, err := unix.Write(client, []byte("ping"))
	require.NoError(t, err)
	assert.Equal(t, []byte("ping"), readWithDeadline(t, client, 5*time.Second))

	// Keep-alive: a second exchange on the same connection.
	_, err = unix.Write(client, []byte("pong"))
	require.NoError(t, err)
	assert.Equal(t, []byte("pong"), readWithDeadline(t, client, 5*time.Second))
}

func TestPeerCloseTearsDownConnection(t *testing.T) {
	cfg := testConfig()
	srv := startEchoServer(t, cfg)

	client, serverFD := clientPair(t)
	require.NoError(t, srv.ScheduleClient(serverFD))

	_, err := unix.Write(client, []byte("ping"))
	require.NoError(t, err)
	readWithDeadline(t, client, 5*time.Second)

	unix.Close(client)

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if fdIsClosed(serverFD) {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("connection not destroyed after peer close")
}

func TestIdleConnectionExpires(t *testing.T) {
	if testing.Short() {
		t.Skip("reaper ticks are 1s granular")
	}

	cfg := testConfig()
	cfg.KeepAliveTimeout = 1
	srv := startEchoServer(t, cfg)

	client, serverFD := clientPair(t)
	defer unix.Close(client)

	require.NoError(t, srv.ScheduleClient(serverFD))

	// Send nothing: the worker reaps the connection and closing its end
	// surfaces as EOF here.
	pfd := []unix.PollFd{{Fd: int32(client), Events: unix.POLLIN}}
	n, err := unix.Poll(pfd, 5000)
	require.NoError(t, err)
	require.NotZero(t, n, "idle connection was not reaped")

	buf := make([]byte, 1)
	n, err = unix.Read(client, buf)
	require.NoError(t, err)
	assert.Zero(t, n, "EOF after reaper closed the peer")
}

func TestShutdownClosesLiveConnections(t *testing.T) {
	cfg := testConfig()
	srv := startEchoServer(t, cfg)

	clients := make([]int, 0, 20)
	for i := 0; i < 20; i++ {
		client, serverFD := clientPair(t)
		clients = append(clients, client)
		require.NoError(t, srv.ScheduleClient(serverFD))
	}

	srv.Shutdown()

	for _, client := range clients {
		pfd := []unix.PollFd{{Fd: int32(client), Events: unix.POLLIN}}
		n, err := unix.Poll(pfd, 5000)
		require.NoError(t, err)
		require.NotZero(t, n)

		buf := make([]byte, 1)
		n, err = unix.Read(client, buf)
		require.NoError(t, err)
		assert.Zero(t, n, "EOF after shutdown closed the peer")
		unix.Close(client)
	}
}
