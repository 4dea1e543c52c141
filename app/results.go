package app

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/orm"
)

// ResultSet holds a list of keys or values returned by a query. The
// response of a query always carries two result sets of the same size.
type ResultSet struct {
	Results [][]byte `protobuf:"bytes,1,rep,name=results" json:"results,omitempty"`
}

// Reset implements proto.Message.
func (r *ResultSet) Reset() { *r = ResultSet{} }

// String implements proto.Message.
func (r *ResultSet) String() string { return proto.CompactTextString(r) }

// ProtoMessage implements proto.Message.
func (*ResultSet) ProtoMessage() {}

func marshalResults(r *ResultSet) ([]byte, error) {
	bz, err := proto.Marshal(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return bz, nil
}

// UnmarshalResults parses a serialized ResultSet.
func UnmarshalResults(bz []byte) (*ResultSet, error) {
	var res ResultSet
	if err := proto.Unmarshal(bz, &res); err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return &res, nil
}

// ResultsFromKeys returns a ResultSet of all keys
// given a set of models
func ResultsFromKeys(models []quorum.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Key
	}
	return &ResultSet{Results: res}
}

// ResultsFromValues returns a ResultSet of all values
// given a set of models
func ResultsFromValues(models []quorum.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Value
	}
	return &ResultSet{Results: res}
}

// JoinResults inverts ResultsFromKeys and ResultsFromValues
// and makes then a consistent whole again
func JoinResults(keys, values *ResultSet) ([]quorum.Model, error) {
	kref, vref := keys.Results, values.Results
	if len(kref) != len(vref) {
		return nil, errors.Wrapf(errors.ErrState, "mismatched result set size: %d keys, %d values", len(kref), len(vref))
	}
	mods := make([]quorum.Model, len(kref))
	for i := range mods {
		mods[i] = quorum.Model{
			Key:   kref[i],
			Value: vref[i],
		}
	}
	return mods, nil
}

// UnmarshalOneResult will parse a resultset, and if it is not empty,
// decode the first result into dest. Returns ErrNotFound when the set
// is empty.
func UnmarshalOneResult(bz []byte, dest orm.Model) error {
	res, err := UnmarshalResults(bz)
	if err != nil {
		return err
	}
	if len(res.Results) == 0 {
		return errors.ErrNotFound
	}
	return orm.Unmarshal(res.Results[0], dest)
}
