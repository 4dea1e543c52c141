package quorum_test

import (
	"fmt"
	"testing"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/common"
)

func TestDeliverTxError(t *testing.T) {
	cases := map[string]struct {
		err      error
		debug    bool
		wantCode uint32
		wantLog  string
	}{
		"registered error": {
			err:      errors.Wrap(errors.ErrNotFound, "action"),
			wantCode: errors.ErrNotFound.ABCICode(),
			wantLog:  "cannot deliver tx: action: not found",
		},
		"unregistered error is redacted": {
			err:      fmt.Errorf("disk on fire"),
			wantCode: 1,
			wantLog:  "cannot deliver tx: internal error",
		},
		"unregistered error in debug mode": {
			err:      fmt.Errorf("disk on fire"),
			debug:    true,
			wantCode: 1,
			wantLog:  "cannot deliver tx: disk on fire",
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			res := quorum.DeliverTxError(tc.err, tc.debug)
			assert.Equal(t, tc.wantCode, res.Code)
			assert.Equal(t, tc.wantLog, res.Log)

			check := quorum.CheckTxError(tc.err, tc.debug)
			assert.Equal(t, tc.wantCode, check.Code)
		})
	}
}

func TestDeliverRoundTrip(t *testing.T) {
	result := &quorum.DeliverResult{
		Data: []byte{0, 1},
		Log:  "10 IOV",
		Tags: []common.KVPair{{Key: []byte("vault.op"), Value: []byte("deposit")}},
	}
	got, err := quorum.ParseDeliverOrError(quorum.DeliverOrError(result, nil, false))
	require.NoError(t, err)
	assert.Equal(t, result, got)

	_, err = quorum.ParseDeliverOrError(quorum.DeliverOrError(nil, errors.ErrAmount, false))
	assert.True(t, errors.ErrAmount.Is(err))

	_, err = quorum.ParseCheckOrError(quorum.CheckOrError(nil, errors.ErrUnauthorized, false))
	assert.True(t, errors.ErrUnauthorized.Is(err))
}
