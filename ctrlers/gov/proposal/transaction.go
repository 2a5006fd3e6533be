package proposal

import (
	"github.com/holiman/uint256"

	"github.com/halochain/halo-gov/types"
	abytes "github.com/halochain/halo-gov/types/bytes"
)

const SelectorSize = 4

// Transaction is one parameterized operation bundled in a proposal.
// It is immutable once the proposal is created.
type Transaction struct {
	Destination types.Address   `json:"destination"`
	Value       *uint256.Int    `json:"value"`
	Payload     abytes.HexBytes `json:"payload"`
}

func NewTransaction(dest types.Address, value *uint256.Int, payload []byte) *Transaction {
	if value == nil {
		value = uint256.NewInt(0)
	}
	return &Transaction{
		Destination: dest,
		Value:       value,
		Payload:     payload,
	}
}

// Selector returns the leading 4 bytes of the payload, used for the
// per-function constitution lookup. It is nil for bare-value transactions.
func (tx *Transaction) Selector() []byte {
	if len(tx.Payload) < SelectorSize {
		return nil
	}
	return tx.Payload[:SelectorSize]
}
