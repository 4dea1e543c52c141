package sigs

import (
	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
)

// RegisterQuery registers the /sigs query. Data is the signer address, the
// value is the stored User.
func RegisterQuery(qr quorum.QueryRouter) {
	qr.Register("/sigs", quorum.QueryHandlerFunc(queryUser))
}

func queryUser(db quorum.ReadOnlyKVStore, mod string, data []byte) ([]quorum.Model, error) {
	if mod != quorum.KeyQueryMod {
		return nil, errors.Wrap(errors.ErrInput, "signers can be queried by address only")
	}
	addr := quorum.Address(data)
	if err := addr.Validate(); err != nil {
		return nil, err
	}
	key := bucket.DBKey(addr)
	raw, err := db.Get(key)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if raw == nil {
		return nil, nil
	}
	return []quorum.Model{quorum.Pair(key, raw)}, nil
}
