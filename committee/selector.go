// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package committee selects the block validators from the staking ledger.
//
// The staking info of a boundary block decides the committee of every block
// resolved to that boundary. Snapshots are built once per boundary, published
// atomically and kept for a bounded number of intervals.
package committee

import (
	"context"
	"math/big"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"

	"github.com/vechain/kaiacore/kaia"
	"github.com/vechain/kaiacore/log"
	"github.com/vechain/kaiacore/staking"
)

var logger = log.WithContext("pkg", "committee")

// DefaultRetention is the number of intervals kept behind the latest snapshot.
const DefaultRetention = 128

var (
	// ErrStaleQuery is returned when the boundary of a query was pruned.
	ErrStaleQuery = errors.New("snapshot pruned")
	// ErrNotYetAvailable is returned for a block past the one built on the ledger head.
	ErrNotYetAvailable = staking.ErrNotYetAvailable
	// ErrNotFound is returned when the boundary precedes the ledger genesis.
	ErrNotFound = staking.ErrNotFound
)

// IsStaleQuery reports whether err means the requested snapshot was pruned.
func IsStaleQuery(err error) bool { return errors.Is(err, ErrStaleQuery) }

// Options tunes a Selector. Zero values pick defaults.
type Options struct {
	Interval  uint64         // staking update interval, kaia.StakingUpdateInterval() if zero
	Mode      ActivationMode // boundary rule switch at the kaia fork
	Anchor    Anchor         // block the kaia rule aligns down from
	MinStake  *big.Int       // kaia.MinimumStake() if nil
	GovNode   kaia.Address   // first registered candidate if zero
	Retention uint64         // intervals, DefaultRetention if zero
	CacheSize int            // committee views cached, 256 if zero
	Store     *Store         // optional persistence
}

// Committee is the validator decision for one block.
type Committee struct {
	BlockNum   uint64
	Boundary   uint64
	Validators []kaia.Address // registration order
	Demoted    []kaia.Address
}

func (c *Committee) copy(blockNum uint64) *Committee {
	return &Committee{
		BlockNum:   blockNum,
		Boundary:   c.Boundary,
		Validators: append([]kaia.Address(nil), c.Validators...),
		Demoted:    append([]kaia.Address{}, c.Demoted...),
	}
}

type snapshotIndex struct {
	snaps  map[uint64]*Snapshot
	latest uint64
}

// Selector answers committee queries for any block within the retention window.
// It is safe for concurrent use.
type Selector struct {
	ledger    staking.Ledger
	boundary  Boundary
	minStake  *big.Int
	gov       kaia.Address
	retention uint64
	store     *Store

	index  atomic.Pointer[snapshotIndex]
	bound  atomic.Uint64 // highest ledger head seen plus two, zero if none
	pubMu  sync.Mutex
	group  singleflight.Group
	viewLu *lru.Cache
}

// NewSelector creates a selector reading stakes from ledger.
func NewSelector(ledger staking.Ledger, forks kaia.ForkConfig, opts Options) (*Selector, error) {
	if err := forks.Validate(); err != nil {
		return nil, err
	}
	if opts.Interval == 0 {
		opts.Interval = kaia.StakingUpdateInterval()
	}
	if opts.MinStake == nil {
		opts.MinStake = kaia.MinimumStake()
	}
	if opts.Retention == 0 {
		opts.Retention = DefaultRetention
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = 256
	}
	views, err := lru.New(opts.CacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "committee cache")
	}

	s := &Selector{
		ledger:    ledger,
		boundary:  Boundary{Forks: forks, Interval: opts.Interval, Mode: opts.Mode, Anchor: opts.Anchor},
		minStake:  new(big.Int).Set(opts.MinStake),
		gov:       opts.GovNode,
		retention: opts.Retention,
		store:     opts.Store,
		viewLu:    views,
	}
	s.index.Store(&snapshotIndex{snaps: map[uint64]*Snapshot{}})
	return s, nil
}

// Boundary returns the boundary policy in use.
func (s *Selector) Boundary() Boundary { return s.boundary }

// SnapshotAt returns the snapshot deciding the committee of blockNum.
func (s *Selector) SnapshotAt(ctx context.Context, blockNum uint64) (*Snapshot, error) {
	if err := s.checkAvailable(ctx, blockNum); err != nil {
		return nil, err
	}
	return s.snapshot(ctx, s.boundary.At(blockNum))
}

// CommitteeAt returns the validators of blockNum.
func (s *Selector) CommitteeAt(ctx context.Context, blockNum uint64) (*Committee, error) {
	if err := s.checkAvailable(ctx, blockNum); err != nil {
		return nil, err
	}
	b := s.boundary.At(blockNum)
	if v, ok := s.viewLu.Get(b); ok && !s.stale(b, s.index.Load()) {
		metricCacheHitMiss().AddWithLabel(1, map[string]string{"event": "hit"})
		return v.(*Committee).copy(blockNum), nil
	}
	metricCacheHitMiss().AddWithLabel(1, map[string]string{"event": "miss"})

	snap, err := s.snapshot(ctx, b)
	if err != nil {
		return nil, err
	}
	view := &Committee{
		Boundary:   b,
		Validators: snap.Committee(),
		Demoted:    snap.Demoted(),
	}
	s.viewLu.Add(b, view)
	return view.copy(blockNum), nil
}

// CouncilAt returns every council member of blockNum, demoted ones included.
func (s *Selector) CouncilAt(ctx context.Context, blockNum uint64) ([]kaia.Address, error) {
	snap, err := s.SnapshotAt(ctx, blockNum)
	if err != nil {
		return nil, err
	}
	return snap.Council(), nil
}

// DemotedAt returns the council members of blockNum excluded from the committee.
func (s *Selector) DemotedAt(ctx context.Context, blockNum uint64) ([]kaia.Address, error) {
	c, err := s.CommitteeAt(ctx, blockNum)
	if err != nil {
		return nil, err
	}
	return c.Demoted, nil
}

// CommitteeSize returns the number of validators of blockNum.
func (s *Selector) CommitteeSize(ctx context.Context, blockNum uint64) (int, error) {
	c, err := s.CommitteeAt(ctx, blockNum)
	if err != nil {
		return 0, err
	}
	return len(c.Validators), nil
}

// CouncilSize returns the number of council members of blockNum.
func (s *Selector) CouncilSize(ctx context.Context, blockNum uint64) (int, error) {
	council, err := s.CouncilAt(ctx, blockNum)
	if err != nil {
		return 0, err
	}
	return len(council), nil
}

// Latest returns the highest boundary a snapshot was built for.
func (s *Selector) Latest() (uint64, bool) {
	idx := s.index.Load()
	return idx.latest, len(idx.snaps) > 0
}

// checkAvailable fails for blocks above the one produced on top of the ledger head.
// The ledger is asked only when blockNum is past the highest head seen so far.
func (s *Selector) checkAvailable(ctx context.Context, blockNum uint64) error {
	if blockNum < s.bound.Load() {
		return nil
	}
	head, err := s.ledger.Head(ctx)
	if err != nil {
		return err
	}
	for {
		cur := s.bound.Load()
		if head+2 <= cur || s.bound.CompareAndSwap(cur, head+2) {
			break
		}
	}
	if blockNum > head+1 {
		return errors.Wrapf(ErrNotYetAvailable, "block %d, head %d", blockNum, head)
	}
	return nil
}

func (s *Selector) stale(boundary uint64, idx *snapshotIndex) bool {
	if len(idx.snaps) == 0 {
		return false
	}
	window := s.retention * s.boundary.Interval
	return idx.latest > window && boundary < idx.latest-window
}

func (s *Selector) snapshot(ctx context.Context, boundary uint64) (*Snapshot, error) {
	idx := s.index.Load()
	if snap, ok := idx.snaps[boundary]; ok {
		return snap, nil
	}
	if s.stale(boundary, idx) {
		return nil, errors.Wrapf(ErrStaleQuery, "boundary %d, latest %d", boundary, idx.latest)
	}

	// shared by every waiter of the boundary, not bound to the first caller
	buildCtx := context.WithoutCancel(ctx)
	ch := s.group.DoChan(strconv.FormatUint(boundary, 10), func() (any, error) {
		if snap, ok := s.index.Load().snaps[boundary]; ok {
			return snap, nil
		}
		snap, err := s.build(buildCtx, boundary)
		if err != nil {
			return nil, err
		}
		s.publish(snap)
		return snap, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Snapshot), nil
	}
}

func (s *Selector) build(ctx context.Context, boundary uint64) (*Snapshot, error) {
	if s.store != nil {
		snap, err := s.store.Load(boundary)
		if err != nil {
			return nil, err
		}
		if snap != nil {
			return snap, nil
		}
	}

	start := time.Now()
	info, err := s.ledger.StakingInfo(ctx, boundary)
	if err != nil {
		return nil, errors.WithMessagef(err, "staking info at boundary %d", boundary)
	}
	withCL := s.boundary.Forks.StateAt(boundary).AtLeast(kaia.Prague)
	snap := NewSnapshot(boundary, info, s.minStake, withCL, s.gov)
	metricSnapshotBuildDuration().Observe(time.Since(start).Milliseconds())

	if s.store != nil {
		if err := s.store.Save(snap); err != nil {
			logger.Warn("failed to persist snapshot", "boundary", boundary, "err", err)
		}
	}
	logger.Debug("snapshot built",
		"boundary", boundary,
		"council", len(snap.members),
		"demoted", len(snap.Demoted()),
		"total", snap.total,
	)
	return snap, nil
}

// publish installs snap into a fresh copy of the index and prunes boundaries outside the window.
func (s *Selector) publish(snap *Snapshot) {
	s.pubMu.Lock()
	defer s.pubMu.Unlock()

	old := s.index.Load()
	next := &snapshotIndex{
		snaps:  make(map[uint64]*Snapshot, len(old.snaps)+1),
		latest: max(old.latest, snap.boundary),
	}
	for b, existing := range old.snaps {
		next.snaps[b] = existing
	}
	next.snaps[snap.boundary] = snap

	var pruned []uint64
	for b := range next.snaps {
		if s.stale(b, next) {
			delete(next.snaps, b)
			s.viewLu.Remove(b)
			pruned = append(pruned, b)
		}
	}
	s.index.Store(next)
	metricSnapshotCount().Set(int64(len(next.snaps)))

	if len(pruned) > 0 && s.store != nil {
		window := s.retention * s.boundary.Interval
		if err := s.store.Prune(next.latest - window); err != nil {
			logger.Warn("failed to prune stored snapshots", "err", err)
		}
	}
}
