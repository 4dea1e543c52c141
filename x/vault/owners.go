package vault

import (
	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
)

// OwnerSet is the immutable list of addresses allowed to submit, approve
// and revoke. The original order is kept.
type OwnerSet struct {
	list  []quorum.Address
	index map[string]struct{}
}

// NewOwnerSet returns an owner set or an error if the list is empty,
// contains an invalid address or the same address twice.
func NewOwnerSet(owners []quorum.Address) (OwnerSet, error) {
	if len(owners) == 0 {
		return OwnerSet{}, errors.Field("Owners", errors.ErrEmpty, "at least one owner required")
	}
	set := OwnerSet{
		list:  make([]quorum.Address, 0, len(owners)),
		index: make(map[string]struct{}, len(owners)),
	}
	var errs error
	for i, o := range owners {
		if err := o.Validate(); err != nil {
			errs = errors.Append(errs, errors.Field(fieldIndex("Owners", i), err, "invalid address"))
			continue
		}
		if _, ok := set.index[string(o)]; ok {
			errs = errors.Append(errs, errors.Field(fieldIndex("Owners", i), errors.ErrDuplicate, "owner %s", o))
			continue
		}
		cp := append(quorum.Address(nil), o...)
		set.index[string(cp)] = struct{}{}
		set.list = append(set.list, cp)
	}
	if errs != nil {
		return OwnerSet{}, errs
	}
	return set, nil
}

// Contains returns true if given address is an owner.
func (s OwnerSet) Contains(addr quorum.Address) bool {
	_, ok := s.index[string(addr)]
	return ok
}

// Len returns the number of owners.
func (s OwnerSet) Len() int {
	return len(s.list)
}

// Owners returns a copy of the owner list.
func (s OwnerSet) Owners() []quorum.Address {
	res := make([]quorum.Address, len(s.list))
	for i, o := range s.list {
		res[i] = append(quorum.Address(nil), o...)
	}
	return res
}
