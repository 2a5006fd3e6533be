package gov

import (
	"encoding/binary"
	"sort"

	abcitypes "github.com/tendermint/tendermint/abci/types"
	tmjson "github.com/tendermint/tendermint/libs/json"

	"github.com/halochain/halo-gov/ctrlers/gov/proposal"
	"github.com/halochain/halo-gov/ledger"
	"github.com/halochain/halo-gov/types"
	"github.com/halochain/halo-gov/types/xerrors"
)

// Query serves read-only inspection of the engine state. Unknown paths fail
// closed with ErrInvalidQueryCmd.
func (ctrler *GovCtrler) Query(req abcitypes.RequestQuery) ([]byte, xerrors.XError) {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	switch req.Path {
	case "proposals":
		return ctrler.queryProposals(req.Data)
	case "queue":
		return ctrler.queryQueue()
	case "slots":
		return ctrler.querySlots()
	case "params":
		return ctrler.queryParams()
	case "refund":
		return ctrler.queryRefund(req.Data)
	case "hotfixes":
		return ctrler.queryHotfix(req.Data)
	default:
		return nil, xerrors.ErrInvalidQueryCmd
	}
}

// queryProposals returns one proposal by its 8-byte big-endian id, or all
// proposals in id order when no data is given.
func (ctrler *GovCtrler) queryProposals(data []byte) ([]byte, xerrors.XError) {
	if len(data) > 0 {
		if len(data) != 8 {
			return nil, xerrors.ErrInvalidQueryParams
		}
		pid := binary.BigEndian.Uint64(data)
		prop, xerr := ctrler.propLedger.Read(ledger.ToLedgerKeyUint64(pid))
		if xerr != nil {
			if xerr == xerrors.ErrNotFoundResult {
				return nil, xerrors.ErrNotFoundProposal
			}
			return nil, xerrors.ErrQuery.Wrap(xerr)
		}
		return marshalResponse(prop)
	}

	var props []*proposal.Proposal
	xerr := ctrler.propLedger.IterateAllItems(func(p *proposal.Proposal) xerrors.XError {
		props = append(props, p)
		return nil
	})
	if xerr != nil {
		return nil, xerrors.ErrQuery.Wrap(xerr)
	}
	sort.Slice(props, func(i, j int) bool { return props[i].ID < props[j].ID })
	return marshalResponse(props)
}

func (ctrler *GovCtrler) queryQueue() ([]byte, xerrors.XError) {
	return marshalResponse(ctrler.state.Queue)
}

func (ctrler *GovCtrler) querySlots() ([]byte, xerrors.XError) {
	slots := ctrler.state.Slots
	if slots == nil {
		slots = []uint64{}
	}
	return marshalResponse(slots)
}

func (ctrler *GovCtrler) queryParams() ([]byte, xerrors.XError) {
	return marshalResponse(ctrler.params)
}

func (ctrler *GovCtrler) queryRefund(data []byte) ([]byte, xerrors.XError) {
	if len(data) != types.AddrSize {
		return nil, xerrors.ErrInvalidQueryParams
	}
	r, xerr := ctrler.refundLedger.Read(ledger.ToLedgerKey(data))
	if xerr != nil {
		if xerr == xerrors.ErrNotFoundResult {
			return nil, xerrors.ErrNotFoundResult
		}
		return nil, xerrors.ErrQuery.Wrap(xerr)
	}
	return marshalResponse(r)
}

// queryHotfix returns one hotfix by its 32-byte hash, or all known hotfixes
// when no data is given.
func (ctrler *GovCtrler) queryHotfix(data []byte) ([]byte, xerrors.XError) {
	if len(data) > 0 {
		h, xerr := ctrler.hotfixLedger.Read(ledger.ToLedgerKey(data))
		if xerr != nil {
			if xerr == xerrors.ErrNotFoundResult {
				return nil, xerrors.ErrNotFoundHotfix
			}
			return nil, xerrors.ErrQuery.Wrap(xerr)
		}
		return marshalResponse(h)
	}

	var hs []*Hotfix
	xerr := ctrler.hotfixLedger.IterateAllItems(func(h *Hotfix) xerrors.XError {
		hs = append(hs, h)
		return nil
	})
	if xerr != nil {
		return nil, xerrors.ErrQuery.Wrap(xerr)
	}
	sort.Slice(hs, func(i, j int) bool { return hs[i].Hash.Compare(hs[j].Hash) < 0 })
	return marshalResponse(hs)
}

func marshalResponse(v interface{}) ([]byte, xerrors.XError) {
	bz, err := tmjson.Marshal(v)
	if err != nil {
		return nil, xerrors.ErrQuery.Wrap(xerrors.From(err))
	}
	return bz, nil
}
