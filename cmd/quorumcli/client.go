package main

import (
	"fmt"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/app"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/orm"
	"github.com/iov-one/quorum/x/sigs"
	cmn "github.com/tendermint/tendermint/libs/common"
	"github.com/tendermint/tendermint/rpc/client"
	ctypes "github.com/tendermint/tendermint/rpc/core/types"
	tmtypes "github.com/tendermint/tendermint/types"
)

// tmClient is the subset of the tendermint RPC used by this program.
type tmClient interface {
	ABCIQuery(path string, data cmn.HexBytes) (*ctypes.ResultABCIQuery, error)
	BroadcastTxCommit(tx tmtypes.Tx) (*ctypes.ResultBroadcastTxCommit, error)
	Genesis() (*ctypes.ResultGenesis, error)
}

// newClient returns a client connected to the tendermint node at given
// address.
var newClient = func(addr string) tmClient {
	return client.NewHTTP(addr, "/websocket")
}

// abciQuery runs a query and returns the decoded models.
func abciQuery(c tmClient, path string, data []byte) ([]quorum.Model, error) {
	resp, err := c.ABCIQuery(path, data)
	if err != nil {
		return nil, fmt.Errorf("cannot query: %s", err)
	}
	if resp.Response.Code != 0 {
		return nil, errors.ABCIError(resp.Response.Code, resp.Response.Log)
	}
	keys, err := app.UnmarshalResults(resp.Response.Key)
	if err != nil {
		return nil, err
	}
	values, err := app.UnmarshalResults(resp.Response.Value)
	if err != nil {
		return nil, err
	}
	return app.JoinResults(keys, values)
}

func chainID(c tmClient) (string, error) {
	resp, err := c.Genesis()
	if err != nil {
		return "", fmt.Errorf("cannot fetch genesis: %s", err)
	}
	return resp.Genesis.ChainID, nil
}

// nextSequence returns the sequence the next signature of given address
// must carry.
func nextSequence(c tmClient, addr quorum.Address) (int64, error) {
	models, err := abciQuery(c, "/sigs", addr)
	if err != nil {
		return 0, err
	}
	if len(models) == 0 {
		return 0, nil
	}
	var user sigs.User
	if err := orm.Unmarshal(models[0].Value, &user); err != nil {
		return 0, err
	}
	return user.Sequence, nil
}
