package proposal

import (
	"encoding/json"

	"github.com/holiman/uint256"

	"github.com/halochain/halo-gov/ledger"
	"github.com/halochain/halo-gov/types"
	"github.com/halochain/halo-gov/types/xerrors"
)

// VoteValue is a referendum choice. Zero is reserved for "no vote".
type VoteValue int32

const (
	VoteNone VoteValue = iota
	VoteAbstain
	VoteNo
	VoteYes
)

func (v VoteValue) IsValid() bool {
	return v == VoteAbstain || v == VoteNo || v == VoteYes
}

func (v VoteValue) String() string {
	switch v {
	case VoteNone:
		return "None"
	case VoteAbstain:
		return "Abstain"
	case VoteNo:
		return "No"
	case VoteYes:
		return "Yes"
	default:
		return "Unknown"
	}
}

type VoteTally struct {
	Yes     int64 `json:"yes"`
	No      int64 `json:"no"`
	Abstain int64 `json:"abstain"`
}

func (t *VoteTally) Total() int64 {
	return t.Yes + t.No + t.Abstain
}

func (t *VoteTally) Apply(v VoteValue, weight int64) {
	switch v {
	case VoteYes:
		t.Yes += weight
	case VoteNo:
		t.No += weight
	case VoteAbstain:
		t.Abstain += weight
	}
}

func (t *VoteTally) Revert(v VoteValue, weight int64) {
	t.Apply(v, -weight)
}

// Proposal is the governance record for one bundle of transactions.
// SubmittedAt is zero only before creation; DequeuedAt is zero while queued
// and is restamped to the dequeue time when the proposal leaves the queue.
type Proposal struct {
	ID             uint64         `json:"id"`
	Proposer       types.Address  `json:"proposer"`
	Deposit        *uint256.Int   `json:"deposit"`
	SubmittedAt    int64          `json:"submittedAt"`
	DequeuedAt     int64          `json:"dequeuedAt"`
	Transactions   []*Transaction `json:"transactions"`
	Tally          VoteTally      `json:"tally"`
	Approved       bool           `json:"approved"`
	NetworkWeight  int64          `json:"networkWeight"`
	DescriptionURL string         `json:"descriptionUrl"`
}

func NewProposal(id uint64, proposer types.Address, deposit *uint256.Int, submittedAt int64, txs []*Transaction, descriptionURL string) *Proposal {
	if deposit == nil {
		deposit = uint256.NewInt(0)
	}
	return &Proposal{
		ID:             id,
		Proposer:       proposer,
		Deposit:        deposit,
		SubmittedAt:    submittedAt,
		Transactions:   txs,
		DescriptionURL: descriptionURL,
	}
}

func (p *Proposal) Key() ledger.LedgerKey {
	return ledger.ToLedgerKeyUint64(p.ID)
}

func (p *Proposal) Encode() ([]byte, xerrors.XError) {
	if bz, err := json.Marshal(p); err != nil {
		return nil, xerrors.From(err)
	} else {
		return bz, nil
	}
}

func (p *Proposal) Decode(bz []byte) xerrors.XError {
	if err := json.Unmarshal(bz, p); err != nil {
		return xerrors.From(err)
	}
	return nil
}

var _ ledger.ILedgerItem = (*Proposal)(nil)

func (p *Proposal) Exists() bool {
	return p.SubmittedAt > 0
}

// IsQueueExpired reports the age-based expiry of a proposal that has not
// been dequeued yet.
func (p *Proposal) IsQueueExpired(now, queueExpiry int64) bool {
	return now >= p.SubmittedAt+queueExpiry
}

func (p *Proposal) StageAt(now int64, d StageDurations) Stage {
	if !p.Exists() {
		return StageNone
	}
	return StageAt(p.DequeuedAt, now, d)
}
