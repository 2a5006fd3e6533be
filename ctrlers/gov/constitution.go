package gov

import (
	"encoding/hex"
	"encoding/json"

	"github.com/holiman/uint256"

	ctrlertypes "github.com/halochain/halo-gov/ctrlers/types"
	"github.com/halochain/halo-gov/ledger"
	"github.com/halochain/halo-gov/types"
	"github.com/halochain/halo-gov/types/xerrors"
)

// Constitution is the pass-threshold table for one destination: a default
// threshold plus per-function-selector overrides. Absent entries imply a
// simple majority.
type Constitution struct {
	Destination      types.Address           `json:"destination"`
	DefaultThreshold *uint256.Int            `json:"defaultThreshold,omitempty"`
	Overrides        map[string]*uint256.Int `json:"overrides,omitempty"`
}

func NewConstitution(dest types.Address) *Constitution {
	return &Constitution{
		Destination: dest,
		Overrides:   make(map[string]*uint256.Int),
	}
}

func (c *Constitution) Key() ledger.LedgerKey {
	return ledger.ToLedgerKey(c.Destination)
}

func (c *Constitution) Encode() ([]byte, xerrors.XError) {
	if bz, err := json.Marshal(c); err != nil {
		return nil, xerrors.From(err)
	} else {
		return bz, nil
	}
}

func (c *Constitution) Decode(bz []byte) xerrors.XError {
	if err := json.Unmarshal(bz, c); err != nil {
		return xerrors.From(err)
	}
	if c.Overrides == nil {
		c.Overrides = make(map[string]*uint256.Int)
	}
	return nil
}

var _ ledger.ILedgerItem = (*Constitution)(nil)

func (c *Constitution) thresholdFor(selector []byte) *uint256.Int {
	if len(selector) > 0 {
		if t, ok := c.Overrides[hex.EncodeToString(selector)]; ok {
			return t
		}
	}
	if c.DefaultThreshold != nil {
		return c.DefaultThreshold
	}
	return ctrlertypes.HalfRatio()
}

// SetConstitution installs a pass threshold for a destination, either the
// default (nil selector) or a per-function override. Owner only. A threshold
// below majority or above one is rejected.
func (ctrler *GovCtrler) SetConstitution(from, dest types.Address, selector []byte, threshold *uint256.Int) xerrors.XError {
	if xerr := ctrler.begin(); xerr != nil {
		return xerr
	}
	defer ctrler.end()

	if !ctrler.isOwner(from) {
		return xerrors.ErrNoRight
	}
	if threshold == nil ||
		threshold.Lt(ctrlertypes.HalfRatio()) ||
		threshold.Gt(ctrlertypes.RatioScale) {
		return xerrors.ErrInvalidParams.Wrapf("threshold must be within [1/2, 1]")
	}

	c, xerr := ctrler.constLedger.Get(ledger.ToLedgerKey(dest))
	if xerr != nil {
		if xerr != xerrors.ErrNotFoundResult {
			return xerr
		}
		c = NewConstitution(dest)
	}
	if len(selector) == 0 {
		c.DefaultThreshold = threshold
	} else {
		c.Overrides[hex.EncodeToString(selector)] = threshold
	}
	if xerr := ctrler.constLedger.Set(c); xerr != nil {
		return xerr
	}

	ctrler.logger.Info("Constitution threshold is set",
		"destination", dest, "selector", hex.EncodeToString(selector), "threshold", threshold.Dec())
	return nil
}

// constitutionThreshold returns the pass threshold applicable to one bundled
// transaction.
func (ctrler *GovCtrler) constitutionThreshold(dest types.Address, selector []byte) *uint256.Int {
	c, xerr := ctrler.constLedger.Get(ledger.ToLedgerKey(dest))
	if xerr != nil {
		return ctrlertypes.HalfRatio()
	}
	return c.thresholdFor(selector)
}
