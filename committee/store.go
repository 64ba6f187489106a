// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package committee

import (
	"encoding/binary"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/vechain/kaiacore/kaia"
	"github.com/vechain/kaiacore/lvldb"
	"github.com/vechain/kaiacore/staking"
)

var snapshotBucket = lvldb.Bucket("s")

// storedSnapshot holds the inputs of a snapshot, the derived fields are rebuilt on load.
type storedSnapshot struct {
	Boundary   uint64
	MinStake   *big.Int
	WithCL     bool
	Gov        kaia.Address
	Candidates []*staking.Candidate
	KEF        kaia.Address
	KIF        kaia.Address
}

// Store persists snapshots so a restarted node does not need to query the ledger again.
type Store struct {
	db *lvldb.LevelDB
}

// NewStore creates a snapshot store on db.
func NewStore(db *lvldb.LevelDB) *Store {
	return &Store{db}
}

func snapshotKey(boundary uint64) []byte {
	var k [8]byte
	binary.BigEndian.PutUint64(k[:], boundary)
	return snapshotBucket.Key(k[:])
}

// Save writes the snapshot.
func (st *Store) Save(snap *Snapshot) error {
	data, err := rlp.EncodeToBytes(&storedSnapshot{
		Boundary:   snap.boundary,
		MinStake:   snap.minStake,
		WithCL:     snap.withCL,
		Gov:        snap.gov,
		Candidates: snap.info.Candidates,
		KEF:        snap.info.KEFAddr,
		KIF:        snap.info.KIFAddr,
	})
	if err != nil {
		return errors.Wrap(err, "encode snapshot")
	}
	return st.db.Put(snapshotKey(snap.boundary), data)
}

// Load reads the snapshot at boundary. It returns nil if none was saved.
func (st *Store) Load(boundary uint64) (*Snapshot, error) {
	data, err := st.db.Get(snapshotKey(boundary))
	if err != nil {
		if lvldb.IsNotFound(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "load snapshot")
	}
	var stored storedSnapshot
	if err := rlp.DecodeBytes(data, &stored); err != nil {
		return nil, errors.Wrapf(err, "decode snapshot %d", boundary)
	}

	info := &staking.StakingInfo{
		BlockNum:   stored.Boundary,
		Candidates: stored.Candidates,
		KEFAddr:    stored.KEF,
		KIFAddr:    stored.KIF,
	}
	if stored.WithCL {
		info.CLStakingInfos = []*staking.CLStakingInfo{}
		for _, c := range info.Candidates {
			if c.CL != nil {
				info.CLStakingInfos = append(info.CLStakingInfos, c.CL)
			}
		}
	}
	return NewSnapshot(stored.Boundary, info, stored.MinStake, stored.WithCL, stored.Gov), nil
}

// Prune deletes every snapshot with a boundary below the given block.
func (st *Store) Prune(below uint64) error {
	batch := st.db.NewBatch()
	limit := snapshotKey(below)
	err := st.db.Iterate([]byte(snapshotBucket), func(key, _ []byte) bool {
		if string(key) >= string(limit) {
			return false
		}
		batch.Delete(append([]byte(nil), key...))
		return true
	})
	if err != nil {
		return err
	}
	if batch.Len() == 0 {
		return nil
	}
	return batch.Write()
}
