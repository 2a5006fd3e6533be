package genesis

import (
	"crypto/sha256"
	"os"
	"path/filepath"

	tmjson "github.com/tendermint/tendermint/libs/json"

	ctrlertypes "github.com/halochain/halo-gov/ctrlers/types"
	"github.com/halochain/halo-gov/types"
	"github.com/halochain/halo-gov/types/xerrors"
)

// GenesisThreshold seeds one constitution entry: a pass threshold for a
// destination, optionally narrowed to a hex-encoded function selector.
type GenesisThreshold struct {
	Destination types.Address `json:"destination"`
	Selector    string        `json:"selector,omitempty"`
	Threshold   string        `json:"threshold"`
}

// GovGenesis is the engine's initial state document. The owner and approver
// addresses are fixed at genesis; everything else is mutable through the
// engine's own operations afterwards.
type GovGenesis struct {
	ChainID    string                 `json:"chainId"`
	Owner      types.Address          `json:"owner"`
	Params     *ctrlertypes.GovParams `json:"params"`
	Thresholds []*GenesisThreshold    `json:"thresholds,omitempty"`
}

func Default(chainID string, owner, approver types.Address) *GovGenesis {
	params := ctrlertypes.DefaultGovParams()
	params.SetApprover(approver)
	return &GovGenesis{
		ChainID: chainID,
		Owner:   owner,
		Params:  params,
	}
}

// Devnet uses the short-stage parameter set so a local network walks the
// whole lifecycle in minutes.
func Devnet(owner, approver types.Address) *GovGenesis {
	params := ctrlertypes.Test1GovParams()
	params.SetApprover(approver)
	return &GovGenesis{
		ChainID: "devnet",
		Owner:   owner,
		Params:  params,
	}
}

func (g *GovGenesis) Validate() xerrors.XError {
	if g.ChainID == "" {
		return xerrors.ErrInvalidParams.Wrapf("empty chain id")
	}
	if len(g.Owner) != types.AddrSize {
		return xerrors.ErrInvalidParams.Wrapf("owner address size %d", len(g.Owner))
	}
	if g.Params == nil {
		return xerrors.ErrInvalidParams.Wrapf("missing params")
	}
	if g.Params.MinDeposit() == nil || g.Params.MinDeposit().IsZero() {
		return xerrors.ErrInvalidParams.Wrapf("zero minimum deposit")
	}
	if g.Params.QueueExpiry() <= 0 || g.Params.DequeueFrequency() <= 0 ||
		g.Params.ConcurrentProposals() <= 0 {
		return xerrors.ErrInvalidParams.Wrapf("non-positive queue parameter")
	}
	d := g.Params.StageDurations()
	if d.Approval <= 0 || d.Referendum <= 0 || d.Execution <= 0 {
		return xerrors.ErrInvalidParams.Wrapf("non-positive stage duration")
	}
	return nil
}

// Hash commits to the whole document, for recording in the host chain's
// genesis app hash.
func (g *GovGenesis) Hash() ([]byte, error) {
	bz, err := tmjson.Marshal(g)
	if err != nil {
		return nil, err
	}
	hasher := sha256.New()
	hasher.Write(bz)
	return hasher.Sum(nil), nil
}

func (g *GovGenesis) SaveAs(path string) error {
	bz, err := tmjson.MarshalIndent(g, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(path, bz, 0o600)
}

func Load(path string) (*GovGenesis, error) {
	bz, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	g := &GovGenesis{}
	if err := tmjson.Unmarshal(bz, g); err != nil {
		return nil, err
	}
	if xerr := g.Validate(); xerr != nil {
		return nil, xerr
	}
	return g, nil
}
