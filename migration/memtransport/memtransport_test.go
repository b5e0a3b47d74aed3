package memtransport_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parallelga/pga/migration/memtransport"
)

func TestPostSendPostRecv_DeliversPayload(t *testing.T) {
	sb := memtransport.NewSwitchboard(2)
	defer sb.Close()

	sender := memtransport.New(sb, 0)
	receiver := memtransport.New(sb, 1)

	ctx := context.Background()
	recvReq, err := receiver.PostRecv(ctx)
	require.NoError(t, err)

	sendReq, err := sender.PostSend(ctx, 1, []byte("hello"))
	require.NoError(t, err)

	waitComplete(t, sendReq)
	complete, payload, err := waitComplete(t, recvReq)
	assert.True(t, complete)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), payload)
}

func TestPostSend_RejectsOutOfRangeDestination(t *testing.T) {
	sb := memtransport.NewSwitchboard(2)
	defer sb.Close()
	tr := memtransport.New(sb, 0)

	_, err := tr.PostSend(context.Background(), 5, []byte("x"))
	assert.Error(t, err)
}

func TestRankAndSize(t *testing.T) {
	sb := memtransport.NewSwitchboard(4)
	defer sb.Close()
	tr := memtransport.New(sb, 2)

	assert.Equal(t, 2, tr.Rank())
	assert.Equal(t, 4, tr.Size())
}

// waitComplete polls a request's Test() until it completes or the test
// times out, returning the same triple Test would.
func waitComplete(t *testing.T, req interface {
	Test() (bool, []byte, error)
}) (bool, []byte, error) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if complete, payload, err := req.Test(); complete {
			return complete, payload, err
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("request never completed")
	return false, nil, nil
}
