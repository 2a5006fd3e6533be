package gov

import (
	"encoding/json"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	"github.com/halochain/halo-gov/ctrlers/gov/proposal"
	"github.com/halochain/halo-gov/ledger"
	"github.com/halochain/halo-gov/types"
	abytes "github.com/halochain/halo-gov/types/bytes"
	"github.com/halochain/halo-gov/types/xerrors"
)

// Hotfix is an out-of-band transaction bundle that bypasses the queue and
// the referendum. It executes only after the approver signs off, a Byzantine
// quorum of the validator set whitelists it, and it is prepared for the
// current epoch.
type Hotfix struct {
	Hash          abytes.HexBytes `json:"hash"`
	Approved      bool            `json:"approved"`
	Executed      bool            `json:"executed"`
	Prepared      bool            `json:"prepared"`
	PreparedEpoch int64           `json:"preparedEpoch"`
	Whitelisters  map[string]bool `json:"whitelisters"`
}

func newHotfix(hash abytes.HexBytes) *Hotfix {
	return &Hotfix{
		Hash:         hash,
		Whitelisters: make(map[string]bool),
	}
}

func (h *Hotfix) Key() ledger.LedgerKey {
	return ledger.ToLedgerKey(h.Hash)
}

func (h *Hotfix) Encode() ([]byte, xerrors.XError) {
	if bz, err := json.Marshal(h); err != nil {
		return nil, xerrors.From(err)
	} else {
		return bz, nil
	}
}

func (h *Hotfix) Decode(bz []byte) xerrors.XError {
	if err := json.Unmarshal(bz, h); err != nil {
		return xerrors.From(err)
	}
	if h.Whitelisters == nil {
		h.Whitelisters = make(map[string]bool)
	}
	return nil
}

var _ ledger.ILedgerItem = (*Hotfix)(nil)

// HotfixHash commits to the exact transaction bundle plus a caller chosen
// salt, so the same bundle can be retried under a fresh identity.
func HotfixHash(txs []*proposal.Transaction, salt []byte) (abytes.HexBytes, xerrors.XError) {
	bz, err := json.Marshal(txs)
	if err != nil {
		return nil, xerrors.From(err)
	}
	return ethcrypto.Keccak256(bz, salt), nil
}

func (ctrler *GovCtrler) getOrNewHotfix(hash abytes.HexBytes) (*Hotfix, xerrors.XError) {
	h, xerr := ctrler.hotfixLedger.Get(ledger.ToLedgerKey(hash))
	if xerr != nil {
		if xerr == xerrors.ErrNotFoundResult {
			return newHotfix(hash), nil
		}
		return nil, xerr
	}
	return h, nil
}

// WhitelistHotfix records the caller's canonical account on the hotfix
// whitelist. Whitelisting is idempotent; only membership counts, and it is
// re-evaluated against the live validator set at prepare time.
func (ctrler *GovCtrler) WhitelistHotfix(from types.Address, hash abytes.HexBytes) xerrors.XError {
	if xerr := ctrler.begin(); xerr != nil {
		return xerr
	}
	defer ctrler.end()

	acct, xerr := ctrler.acctHandler.CanonicalAccount(from)
	if xerr != nil {
		return xerr
	}
	h, xerr := ctrler.getOrNewHotfix(hash)
	if xerr != nil {
		return xerr
	}
	if h.Executed {
		return xerrors.ErrAlreadyExecuted
	}

	h.Whitelisters[acct.String()] = true
	if xerr := ctrler.hotfixLedger.Set(h); xerr != nil {
		return xerr
	}
	ctrler.logger.Debug("Hotfix is whitelisted", "hash", hash, "account", acct)
	return nil
}

// ApproveHotfix is the approver's sign-off; it is independent of the
// validator whitelist quorum.
func (ctrler *GovCtrler) ApproveHotfix(from types.Address, hash abytes.HexBytes) xerrors.XError {
	if xerr := ctrler.begin(); xerr != nil {
		return xerr
	}
	defer ctrler.end()

	if !ctrler.isApprover(from) {
		return xerrors.ErrNoRight
	}
	h, xerr := ctrler.getOrNewHotfix(hash)
	if xerr != nil {
		return xerr
	}
	if h.Executed {
		return xerrors.ErrAlreadyExecuted
	}
	if h.Approved {
		return xerrors.ErrAlreadyApproved
	}

	h.Approved = true
	if xerr := ctrler.hotfixLedger.Set(h); xerr != nil {
		return xerr
	}
	ctrler.logger.Info("Hotfix is approved", "hash", hash)
	return nil
}

// IsHotfixPassing reports whether a Byzantine quorum of the current
// validator set has whitelisted the hotfix.
func (ctrler *GovCtrler) IsHotfixPassing(hash abytes.HexBytes) (bool, xerrors.XError) {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	h, xerr := ctrler.hotfixLedger.Read(ledger.ToLedgerKey(hash))
	if xerr != nil {
		if xerr == xerrors.ErrNotFoundResult {
			return false, nil
		}
		return false, xerr
	}
	return ctrler.isHotfixPassing(h), nil
}

func (ctrler *GovCtrler) isHotfixPassing(h *Hotfix) bool {
	vals, n := ctrler.valsetHandler.Validators()
	if n <= 0 {
		return false
	}

	// distinct canonical accounts, not raw validator keys
	tally := make(map[string]bool)
	for _, v := range vals {
		acct, xerr := ctrler.acctHandler.CanonicalAccount(types.Address(v.Address))
		if xerr != nil {
			continue
		}
		if h.Whitelisters[acct.String()] {
			tally[acct.String()] = true
		}
	}

	quorum := (2*n + 2) / 3
	return int64(len(tally)) >= quorum
}

// PrepareHotfix binds a passing hotfix to the current epoch. The restriction
// to one prepare per epoch keeps a stale quorum from being replayed later.
func (ctrler *GovCtrler) PrepareHotfix(from types.Address, hash abytes.HexBytes) xerrors.XError {
	if xerr := ctrler.begin(); xerr != nil {
		return xerr
	}
	defer ctrler.end()

	h, xerr := ctrler.hotfixLedger.Get(ledger.ToLedgerKey(hash))
	if xerr != nil {
		if xerr == xerrors.ErrNotFoundResult {
			return xerrors.ErrHotfixNotPassing
		}
		return xerr
	}
	if h.Executed {
		return xerrors.ErrAlreadyExecuted
	}
	if !ctrler.isHotfixPassing(h) {
		return xerrors.ErrHotfixNotPassing
	}

	epoch := ctrler.valsetHandler.CurrentEpoch()
	if h.Prepared && h.PreparedEpoch == epoch {
		return xerrors.ErrAlreadyPrepared
	}

	h.Prepared = true
	h.PreparedEpoch = epoch
	if xerr := ctrler.hotfixLedger.Set(h); xerr != nil {
		return xerr
	}
	ctrler.logger.Info("Hotfix is prepared", "hash", hash, "epoch", epoch)
	return nil
}

// ExecuteHotfix dispatches the bundle whose hash (with salt) matches a
// hotfix that is approved, quorum-whitelisted, and prepared for the current
// epoch. The bundle itself is supplied by the caller; the hash check proves
// it is the one that was agreed on.
func (ctrler *GovCtrler) ExecuteHotfix(from types.Address, txs []*proposal.Transaction, salt []byte) xerrors.XError {
	if xerr := ctrler.begin(); xerr != nil {
		return xerr
	}
	defer ctrler.end()

	hash, xerr := HotfixHash(txs, salt)
	if xerr != nil {
		return xerr
	}
	h, xerr := ctrler.hotfixLedger.Get(ledger.ToLedgerKey(hash))
	if xerr != nil {
		if xerr == xerrors.ErrNotFoundResult {
			return xerrors.ErrHotfixNotApproved
		}
		return xerr
	}
	if !h.Approved {
		return xerrors.ErrHotfixNotApproved
	}
	if h.Executed {
		return xerrors.ErrAlreadyExecuted
	}
	if !h.Prepared || h.PreparedEpoch != ctrler.valsetHandler.CurrentEpoch() {
		return xerrors.ErrHotfixNotPrepared
	}

	for _, tx := range txs {
		if dxerr := ctrler.dispatcher.Dispatch(tx); dxerr != nil {
			return xerrors.ErrExecution.Wrap(dxerr)
		}
	}

	h.Executed = true
	if xerr := ctrler.hotfixLedger.Set(h); xerr != nil {
		return xerr
	}
	ctrler.logger.Info("Hotfix is executed", "hash", hash, "txs", len(txs), "caller", from)
	return nil
}
