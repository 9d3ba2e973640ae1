//go:build integration

package reqrep

import (
	"context"
	"testing"
	"time"

	"github.com/go-zeromq/zmq4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/credcheck/internal/model"
	"github.com/dtroode/credcheck/internal/repository/static"
	"github.com/dtroode/credcheck/internal/service"
	"github.com/dtroode/credcheck/internal/testutil"
)

func TestZMQSocket_RoundTrip(t *testing.T) {
	lg := testutil.MakeNoopLogger()
	store := static.NewStore([]model.UserRecord{
		{Username: "julioJones", Password: "falcons"},
		{Username: "d_wright", Password: "bears00"},
	})

	sock := NewZMQSocket(context.Background(), lg)
	listening := make(chan struct{})
	l := NewLoop(sock, "tcp://127.0.0.1:0", service.NewDispatcher(store, lg), lg,
		WithStateObserver(func(s State) {
			if s == StateListening {
				select {
				case <-listening:
				default:
					close(listening)
				}
			}
		}))

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- l.Serve(ctx) }()

	select {
	case <-listening:
	case <-time.After(5 * time.Second):
		t.Fatal("loop did not start listening")
	}

	req := zmq4.NewReq(context.Background())
	t.Cleanup(func() { _ = req.Close() })
	require.NoError(t, req.Dial("tcp://"+sock.Addr().String()))

	cases := []struct {
		raw  string
		want string
	}{
		{`{"username": "julioJones", "password": "falcons"}`, "valid"},
		{`{"username": "d_wright", "password": "bears00"}`, "valid"},
		{`{"username": "JulioJones", "password": "falcons"}`, "invalid"},
		{`{"username": "julioJones", "password": "falCons"}`, "invalid"},
		{`{"username": "test", "password": "falcons"}`, "invalid"},
		{`{"username": "julioJones", "password": "test"}`, "invalid"},
		{`{"username": "julioJones", "password": "falcons", "extra": "x"}`, "invalid"},
		{`{"username": "julioJones"}`, "invalid"},
		{`{"password": "falcons"}`, "invalid"},
	}
	for _, c := range cases {
		require.NoError(t, req.Send(zmq4.NewMsgString(c.raw)))
		msg, err := req.Recv()
		require.NoError(t, err)
		assert.Equal(t, c.want, string(msg.Bytes()), c.raw)
	}

	cancel()
	select {
	case err := <-errc:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("loop did not stop")
	}
}
