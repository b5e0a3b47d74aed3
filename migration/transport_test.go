package migration

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequest_TestIsFalseUntilComplete(t *testing.T) {
	req := NewPendingRequest()

	complete, _, _ := req.Test()
	assert.False(t, complete)

	req.Complete([]byte("payload"), nil)

	complete, result, err := req.Test()
	assert.True(t, complete)
	assert.NoError(t, err)
	assert.Equal(t, []byte("payload"), result)
}

func TestRequest_CompleteCarriesError(t *testing.T) {
	req := NewPendingRequest()
	boom := assert.AnError
	req.Complete(nil, boom)

	complete, result, err := req.Test()
	assert.True(t, complete)
	assert.Nil(t, result)
	assert.Equal(t, boom, err)
}
