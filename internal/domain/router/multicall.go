package router

import (
	"math/big"

	"github.com/bimakw/dex-router/internal/domain/entities"
)

// EncodeMulticall batches calldatas into one call, guarded by validation
// when it is set
func EncodeMulticall(enc Encoder, calldatas [][]byte, validation Validation) ([]byte, error) {
	switch {
	case validation.blockhash != nil:
		return encode(enc, sigMulticallBlockhash, *validation.blockhash, calldatas)
	case validation.deadline != nil:
		return encode(enc, sigMulticallDeadline, validation.deadline, calldatas)
	default:
		return encode(enc, sigMulticall, calldatas)
	}
}

// EncodePermit approves the router through a signed permit for token
func EncodePermit(enc Encoder, token entities.Token, permit PermitOptions) ([]byte, error) {
	if permit.allowed() {
		return encode(enc, sigSelfPermitAllowed, token.Address, permit.Nonce, permit.Expiry, permit.V, permit.R, permit.S)
	}
	return encode(enc, sigSelfPermit, token.Address, orZero(permit.Amount), orZero(permit.Deadline), permit.V, permit.R, permit.S)
}

func orZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}
