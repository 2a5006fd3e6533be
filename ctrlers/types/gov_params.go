package types

import (
	"sync"

	"github.com/holiman/uint256"
	tmjson "github.com/tendermint/tendermint/libs/json"

	"github.com/halochain/halo-gov/ctrlers/gov/proposal"
	"github.com/halochain/halo-gov/ledger"
	"github.com/halochain/halo-gov/types"
	abytes "github.com/halochain/halo-gov/types/bytes"
	"github.com/halochain/halo-gov/types/xerrors"
)

// GovParams carries every governance tunable. It is persisted as a single
// ledger item at the zero key; the owner-restricted setters on the engine are
// the only writers after genesis.
type GovParams struct {
	version  int64
	approver types.Address

	minDeposit          *uint256.Int
	queueExpiry         int64
	dequeueFrequency    int64
	concurrentProposals int64

	approvalStageDuration   int64
	referendumStageDuration int64
	executionStageDuration  int64

	participationBaseline *uint256.Int
	participationFloor    *uint256.Int
	baselineUpdateFactor  *uint256.Int
	baselineQuorumFactor  *uint256.Int

	mtx sync.RWMutex
}

func DefaultGovParams() *GovParams {
	return &GovParams{
		version:                 1,
		minDeposit:              uint256.MustFromDecimal("100000000000000000000"), // 100 HALO
		queueExpiry:             60 * 60 * 24 * 28,                                // 4 weeks
		dequeueFrequency:        60 * 60 * 24,                                     // 1 day
		concurrentProposals:     3,
		approvalStageDuration:   60 * 60 * 24,     // 1 day
		referendumStageDuration: 60 * 60 * 24 * 5, // 5 days
		executionStageDuration:  60 * 60 * 24 * 3, // 3 days
		participationBaseline:   RatioFromPercent(5),
		participationFloor:      RatioFromPercent(1),
		baselineUpdateFactor:    RatioFromPercent(20),
		baselineQuorumFactor:    RatioFromPercent(100),
	}
}

// Test1GovParams matches the walkthrough fixtures: deposit minimum of 100 raw
// units, one dequeue slot, short stages.
func Test1GovParams() *GovParams {
	return &GovParams{
		version:                 1,
		minDeposit:              uint256.NewInt(100),
		queueExpiry:             3600,
		dequeueFrequency:        60,
		concurrentProposals:     1,
		approvalStageDuration:   600,
		referendumStageDuration: 600,
		executionStageDuration:  600,
		participationBaseline:   RatioFromPercent(50),
		participationFloor:      RatioFromPercent(5),
		baselineUpdateFactor:    RatioFromPercent(20),
		baselineQuorumFactor:    RatioFromPercent(100),
	}
}

func (r *GovParams) Key() ledger.LedgerKey {
	return ledger.ToLedgerKey(abytes.ZeroBytes(32))
}

func (r *GovParams) Encode() ([]byte, xerrors.XError) {
	if bz, err := tmjson.Marshal(r); err != nil {
		return nil, xerrors.From(err)
	} else {
		return bz, nil
	}
}

func (r *GovParams) Decode(bz []byte) xerrors.XError {
	if err := tmjson.Unmarshal(bz, r); err != nil {
		return xerrors.From(err)
	}
	return nil
}

var _ ledger.ILedgerItem = (*GovParams)(nil)

func (r *GovParams) Version() int64 {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	return r.version
}

func (r *GovParams) Approver() types.Address {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	return r.approver
}

func (r *GovParams) MinDeposit() *uint256.Int {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	return r.minDeposit
}

func (r *GovParams) QueueExpiry() int64 {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	return r.queueExpiry
}

func (r *GovParams) DequeueFrequency() int64 {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	return r.dequeueFrequency
}

func (r *GovParams) ConcurrentProposals() int64 {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	return r.concurrentProposals
}

func (r *GovParams) StageDurations() proposal.StageDurations {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	return proposal.StageDurations{
		Approval:   r.approvalStageDuration,
		Referendum: r.referendumStageDuration,
		Execution:  r.executionStageDuration,
	}
}

func (r *GovParams) ParticipationBaseline() *uint256.Int {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	return r.participationBaseline
}

func (r *GovParams) ParticipationFloor() *uint256.Int {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	return r.participationFloor
}

func (r *GovParams) BaselineUpdateFactor() *uint256.Int {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	return r.baselineUpdateFactor
}

func (r *GovParams) BaselineQuorumFactor() *uint256.Int {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	return r.baselineQuorumFactor
}

func (r *GovParams) SetApprover(addr types.Address) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	r.approver = addr
}

func (r *GovParams) SetMinDeposit(v *uint256.Int) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	r.minDeposit = v
}

func (r *GovParams) SetQueueExpiry(v int64) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	r.queueExpiry = v
}

func (r *GovParams) SetDequeueFrequency(v int64) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	r.dequeueFrequency = v
}

func (r *GovParams) SetConcurrentProposals(v int64) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	r.concurrentProposals = v
}

func (r *GovParams) SetStageDurations(d proposal.StageDurations) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	r.approvalStageDuration = d.Approval
	r.referendumStageDuration = d.Referendum
	r.executionStageDuration = d.Execution
}

func (r *GovParams) SetParticipationBaseline(v *uint256.Int) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	r.participationBaseline = v
}

func (r *GovParams) SetParticipationFloor(v *uint256.Int) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	r.participationFloor = v
}

func (r *GovParams) SetBaselineUpdateFactor(v *uint256.Int) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	r.baselineUpdateFactor = v
}

func (r *GovParams) SetBaselineQuorumFactor(v *uint256.Int) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	r.baselineQuorumFactor = v
}

type govParamsJSON struct {
	Version                 int64         `json:"version"`
	Approver                types.Address `json:"approver"`
	MinDeposit              string        `json:"minDeposit"`
	QueueExpiry             int64         `json:"queueExpiry"`
	DequeueFrequency        int64         `json:"dequeueFrequency"`
	ConcurrentProposals     int64         `json:"concurrentProposals"`
	ApprovalStageDuration   int64         `json:"approvalStageDuration"`
	ReferendumStageDuration int64         `json:"referendumStageDuration"`
	ExecutionStageDuration  int64         `json:"executionStageDuration"`
	ParticipationBaseline   string        `json:"participationBaseline"`
	ParticipationFloor      string        `json:"participationFloor"`
	BaselineUpdateFactor    string        `json:"baselineUpdateFactor"`
	BaselineQuorumFactor    string        `json:"baselineQuorumFactor"`
}

func (r *GovParams) MarshalJSON() ([]byte, error) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	tm := &govParamsJSON{
		Version:                 r.version,
		Approver:                r.approver,
		MinDeposit:              uint256ToString(r.minDeposit),
		QueueExpiry:             r.queueExpiry,
		DequeueFrequency:        r.dequeueFrequency,
		ConcurrentProposals:     r.concurrentProposals,
		ApprovalStageDuration:   r.approvalStageDuration,
		ReferendumStageDuration: r.referendumStageDuration,
		ExecutionStageDuration:  r.executionStageDuration,
		ParticipationBaseline:   uint256ToString(r.participationBaseline),
		ParticipationFloor:      uint256ToString(r.participationFloor),
		BaselineUpdateFactor:    uint256ToString(r.baselineUpdateFactor),
		BaselineQuorumFactor:    uint256ToString(r.baselineQuorumFactor),
	}
	return tmjson.Marshal(tm)
}

func (r *GovParams) UnmarshalJSON(bz []byte) error {
	tm := &govParamsJSON{}
	if err := tmjson.Unmarshal(bz, tm); err != nil {
		return err
	}

	minDeposit, err := uint256FromString(tm.MinDeposit)
	if err != nil {
		return err
	}
	baseline, err := uint256FromString(tm.ParticipationBaseline)
	if err != nil {
		return err
	}
	floor, err := uint256FromString(tm.ParticipationFloor)
	if err != nil {
		return err
	}
	updateFactor, err := uint256FromString(tm.BaselineUpdateFactor)
	if err != nil {
		return err
	}
	quorumFactor, err := uint256FromString(tm.BaselineQuorumFactor)
	if err != nil {
		return err
	}

	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.version = tm.Version
	r.approver = tm.Approver
	r.minDeposit = minDeposit
	r.queueExpiry = tm.QueueExpiry
	r.dequeueFrequency = tm.DequeueFrequency
	r.concurrentProposals = tm.ConcurrentProposals
	r.approvalStageDuration = tm.ApprovalStageDuration
	r.referendumStageDuration = tm.ReferendumStageDuration
	r.executionStageDuration = tm.ExecutionStageDuration
	r.participationBaseline = baseline
	r.participationFloor = floor
	r.baselineUpdateFactor = updateFactor
	r.baselineQuorumFactor = quorumFactor
	return nil
}

func uint256ToString(value *uint256.Int) string {
	if value == nil {
		return ""
	}
	return value.Dec()
}

func uint256FromString(s string) (*uint256.Int, error) {
	if s == "" {
		return nil, nil
	}
	return uint256.FromDecimal(s)
}
