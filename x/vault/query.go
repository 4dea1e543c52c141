package vault

import (
	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/orm"
	"github.com/iov-one/quorum/x/cash"
)

// RegisterQuery registers the vault queries:
//
//	/vault/config     the configuration, data is ignored
//	/vault/actions    key query by 8 byte id, prefix query with empty data lists all
//	/vault/approvals  key query by id and owner, prefix query by id lists all owners
//	/vault/balance    the vault wallet, data is ignored
//
// All values are serialized the same way they are stored.
func RegisterQuery(qr quorum.QueryRouter) {
	qr.Register("/vault/config", quorum.QueryHandlerFunc(queryConfig))
	qr.Register("/vault/actions", quorum.QueryHandlerFunc(queryActions))
	qr.Register("/vault/approvals", quorum.QueryHandlerFunc(queryApprovals))
	qr.Register("/vault/balance", quorum.QueryHandlerFunc(queryBalance))
}

func queryConfig(db quorum.ReadOnlyKVStore, mod string, data []byte) ([]quorum.Model, error) {
	cfg, err := LoadConfig(db)
	if err != nil {
		return nil, err
	}
	return pair(configBucket.DBKey(configKey), cfg)
}

func queryActions(db quorum.ReadOnlyKVStore, mod string, data []byte) ([]quorum.Model, error) {
	ctrl, err := LoadController(db)
	if err != nil {
		return nil, err
	}
	switch mod {
	case quorum.KeyQueryMod:
		id, err := ParseID(data)
		if err != nil {
			return nil, err
		}
		a, err := ctrl.Action(db, id)
		if errors.ErrNotFound.Is(err) || ErrTxNotExist.Is(err) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return pair(actionBucket.DBKey(ActionKey(id)), a)
	case quorum.PrefixQueryMod:
		if len(data) != 0 {
			return nil, errors.Wrap(errors.ErrInput, "actions can only be listed as a whole")
		}
		actions, err := ctrl.Actions(db, 0, 0)
		if err != nil {
			return nil, err
		}
		res := make([]quorum.Model, 0, len(actions))
		for i := range actions {
			m, err := pair(actionBucket.DBKey(ActionKey(uint64(i))), &actions[i])
			if err != nil {
				return nil, err
			}
			res = append(res, m...)
		}
		return res, nil
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown mod %q", mod)
	}
}

func queryApprovals(db quorum.ReadOnlyKVStore, mod string, data []byte) ([]quorum.Model, error) {
	ctrl, err := LoadController(db)
	if err != nil {
		return nil, err
	}
	if len(data) < 8 {
		return nil, errors.Wrap(errors.ErrInput, "missing action id")
	}
	id, err := ParseID(data[:8])
	if err != nil {
		return nil, err
	}

	owners := ctrl.Owners()
	switch mod {
	case quorum.KeyQueryMod:
		owners = []quorum.Address{quorum.Address(data[8:])}
	case quorum.PrefixQueryMod:
		if len(data) != 8 {
			return nil, errors.Wrap(errors.ErrInput, "prefix must be the action id")
		}
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown mod %q", mod)
	}

	var res []quorum.Model
	for _, o := range owners {
		ok, err := ctrl.IsApproved(db, id, o)
		if ErrTxNotExist.Is(err) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		m, err := pair(approvalBucket.DBKey(ApprovalKey(id, o)), &Approval{Approved: ok})
		if err != nil {
			return nil, err
		}
		res = append(res, m...)
	}
	return res, nil
}

func queryBalance(db quorum.ReadOnlyKVStore, mod string, data []byte) ([]quorum.Model, error) {
	ctrl, err := LoadController(db)
	if err != nil {
		return nil, err
	}
	balance, err := ctrl.Balance(db)
	if err != nil {
		return nil, err
	}
	return pair(ctrl.Address(), &cash.Wallet{Coins: balance})
}

func pair(key []byte, m orm.Model) ([]quorum.Model, error) {
	raw, err := orm.Marshal(m)
	if err != nil {
		return nil, err
	}
	return []quorum.Model{quorum.Pair(key, raw)}, nil
}
