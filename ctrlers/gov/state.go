package gov

import (
	"encoding/json"

	"github.com/holiman/uint256"

	"github.com/halochain/halo-gov/ctrlers/gov/queue"
	"github.com/halochain/halo-gov/ledger"
	"github.com/halochain/halo-gov/types"
	"github.com/halochain/halo-gov/types/xerrors"
)

var govStateKey = ledger.ToLedgerKey([]byte("gov_state"))

// govState is the engine's single bookkeeping record: the issued-id counter,
// the upvote-ordered queue, the dequeued-slot array and its holes, and the
// last opportunistic dequeue time.
type govState struct {
	NextProposalID uint64            `json:"nextProposalId"`
	LastDequeue    int64             `json:"lastDequeue"`
	Slots          []uint64          `json:"slots"`
	Holes          []int64           `json:"holes"`
	Queue          *queue.SortedList `json:"queue"`
}

func newGovState() *govState {
	return &govState{
		NextProposalID: 1,
		Queue:          queue.NewSortedList(),
	}
}

func (s *govState) Key() ledger.LedgerKey {
	return govStateKey
}

func (s *govState) Encode() ([]byte, xerrors.XError) {
	if bz, err := json.Marshal(s); err != nil {
		return nil, xerrors.From(err)
	} else {
		return bz, nil
	}
}

func (s *govState) Decode(bz []byte) xerrors.XError {
	if err := json.Unmarshal(bz, s); err != nil {
		return xerrors.From(err)
	}
	if s.Queue == nil {
		s.Queue = queue.NewSortedList()
	}
	return nil
}

var _ ledger.ILedgerItem = (*govState)(nil)

// fillSlot reuses the most recent hole, else appends, and returns the index.
func (s *govState) fillSlot(pid uint64) int64 {
	if n := len(s.Holes); n > 0 {
		idx := s.Holes[n-1]
		s.Holes = s.Holes[:n-1]
		s.Slots[idx] = pid
		return idx
	}
	s.Slots = append(s.Slots, pid)
	return int64(len(s.Slots) - 1)
}

// clearSlot zeroes the slot and records the hole for reuse.
func (s *govState) clearSlot(idx int64) {
	s.Slots[idx] = 0
	s.Holes = append(s.Holes, idx)
}

// Refund is a deposit credit pending withdrawal, keyed by account. Mutation
// is always an additive credit; payout happens in the separate Withdraw
// operation.
type Refund struct {
	Address types.Address `json:"address"`
	Amount  *uint256.Int  `json:"amount"`
}

func NewRefund(addr types.Address) *Refund {
	return &Refund{
		Address: addr,
		Amount:  uint256.NewInt(0),
	}
}

func (r *Refund) Key() ledger.LedgerKey {
	return ledger.ToLedgerKey(r.Address)
}

func (r *Refund) Encode() ([]byte, xerrors.XError) {
	if bz, err := json.Marshal(r); err != nil {
		return nil, xerrors.From(err)
	} else {
		return bz, nil
	}
}

func (r *Refund) Decode(bz []byte) xerrors.XError {
	if err := json.Unmarshal(bz, r); err != nil {
		return xerrors.From(err)
	}
	return nil
}

var _ ledger.ILedgerItem = (*Refund)(nil)
