package types

import (
	"encoding/hex"
	"strings"

	abytes "github.com/halochain/halo-gov/types/bytes"
	"github.com/halochain/halo-gov/types/xerrors"
)

const AddrSize = 20

type Address = abytes.HexBytes

func RandAddress() Address {
	return abytes.RandBytes(AddrSize)
}

func ZeroAddress() Address {
	return abytes.ZeroBytes(AddrSize)
}

func HexToAddress(_hex string) (Address, error) {
	if strings.HasPrefix(_hex, "0x") {
		_hex = _hex[2:]
	}
	bzAddr, err := hex.DecodeString(_hex)
	if err != nil {
		return nil, xerrors.From(err)
	}
	if len(bzAddr) != AddrSize {
		return nil, xerrors.New("error of address length: address length should be 20 bytes")
	}
	return bzAddr, nil
}
