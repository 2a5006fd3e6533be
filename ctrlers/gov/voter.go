package gov

import (
	"encoding/json"

	"github.com/halochain/halo-gov/ctrlers/gov/proposal"
	"github.com/halochain/halo-gov/ledger"
	"github.com/halochain/halo-gov/types"
	"github.com/halochain/halo-gov/types/xerrors"
)

// UpvoteRecord is an account's single live queued upvote.
type UpvoteRecord struct {
	ProposalID uint64 `json:"proposalId"`
	Weight     int64  `json:"weight"`
}

// VoteRecord is an account's referendum vote at one dequeue slot. The record
// is keyed by slot, not proposal, so a record whose ProposalID no longer
// matches the slot's occupant is inert.
type VoteRecord struct {
	Value      proposal.VoteValue `json:"value"`
	ProposalID uint64             `json:"proposalId"`
	Weight     int64              `json:"weight"`
}

// Voter is the per-account governance record, keyed by canonical account.
type Voter struct {
	Address              types.Address         `json:"address"`
	Upvote               *UpvoteRecord         `json:"upvote,omitempty"`
	Votes                map[int64]*VoteRecord `json:"votes,omitempty"`
	MostRecentReferendum uint64                `json:"mostRecentReferendum"`
}

func NewVoter(addr types.Address) *Voter {
	return &Voter{
		Address: addr,
		Votes:   make(map[int64]*VoteRecord),
	}
}

func (v *Voter) Key() ledger.LedgerKey {
	return ledger.ToLedgerKey(v.Address)
}

func (v *Voter) Encode() ([]byte, xerrors.XError) {
	if bz, err := json.Marshal(v); err != nil {
		return nil, xerrors.From(err)
	} else {
		return bz, nil
	}
}

func (v *Voter) Decode(bz []byte) xerrors.XError {
	if err := json.Unmarshal(bz, v); err != nil {
		return xerrors.From(err)
	}
	if v.Votes == nil {
		v.Votes = make(map[int64]*VoteRecord)
	}
	return nil
}

var _ ledger.ILedgerItem = (*Voter)(nil)
