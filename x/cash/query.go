package cash

import (
	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/orm"
)

// RegisterQuery registers the /wallets query. Data is the wallet address,
// the value is the stored wallet.
func RegisterQuery(qr quorum.QueryRouter) {
	qr.Register("/wallets", quorum.QueryHandlerFunc(queryWallet))
}

func queryWallet(db quorum.ReadOnlyKVStore, mod string, data []byte) ([]quorum.Model, error) {
	if mod != quorum.KeyQueryMod {
		return nil, errors.Wrap(errors.ErrInput, "wallets can be queried by address only")
	}
	addr := quorum.Address(data)
	if err := addr.Validate(); err != nil {
		return nil, err
	}
	b := orm.NewModelBucket(BucketName)
	key := b.DBKey(addr)
	raw, err := db.Get(key)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if raw == nil {
		return nil, nil
	}
	return []quorum.Model{quorum.Pair(key, raw)}, nil
}
