package entities

import (
	"bytes"
	"errors"

	"github.com/ethereum/go-ethereum/common"
)

// ChainMainnet is the Ethereum mainnet chain id
const ChainMainnet int64 = 1

var ErrSameAddress = errors.New("tokens have the same address")

// Currency is either an ERC20 token or the chain's native currency
type Currency interface {
	IsNative() bool
	IsToken() bool
	// Wrapped returns the token itself, or the wrapped token for a native currency
	Wrapped() Token
	Equals(other Currency) bool
}

// Token is an ERC20 token. BuyFeeBps and SellFeeBps describe fee-on-transfer taxes.
type Token struct {
	ChainID    int64          `json:"chainId"`
	Address    common.Address `json:"address"`
	Symbol     string         `json:"symbol"`
	Name       string         `json:"name"`
	Decimals   uint8          `json:"decimals"`
	BuyFeeBps  uint32         `json:"buyFeeBps,omitempty"`
	SellFeeBps uint32         `json:"sellFeeBps,omitempty"`
}

func (t Token) IsNative() bool { return false }
func (t Token) IsToken() bool  { return true }
func (t Token) Wrapped() Token { return t }

// Equals reports whether other is a token with the same chain and address
func (t Token) Equals(other Currency) bool {
	o, ok := other.(Token)
	if !ok {
		return false
	}
	return t.ChainID == o.ChainID && t.Address == o.Address
}

// SortsBefore reports whether t sorts before other by address, as venue token0/token1 do
func (t Token) SortsBefore(other Token) (bool, error) {
	cmp := bytes.Compare(t.Address.Bytes(), other.Address.Bytes())
	if cmp == 0 {
		return false, ErrSameAddress
	}
	return cmp < 0, nil
}

// Native is the chain's gas currency, traded through its wrapped token
type Native struct {
	ChainID int64
	Symbol  string
	Name    string
	WETH    Token
}

func (n Native) IsNative() bool { return true }
func (n Native) IsToken() bool  { return false }
func (n Native) Wrapped() Token { return n.WETH }

func (n Native) Equals(other Currency) bool {
	o, ok := other.(Native)
	return ok && o.ChainID == n.ChainID
}

// SymbolOf returns the display symbol of a currency
func SymbolOf(c Currency) string {
	if n, ok := c.(Native); ok {
		return n.Symbol
	}
	return c.Wrapped().Symbol
}

// Ether returns the native currency of chainID. ok is false for unknown chains.
func Ether(chainID int64) (Native, bool) {
	weth, ok := WETH9[chainID]
	if !ok {
		return Native{}, false
	}
	return Native{ChainID: chainID, Symbol: "ETH", Name: "Ether", WETH: weth}, true
}

// WETH is the canonical Wrapped Ether token on Ethereum mainnet
var WETH = Token{
	ChainID:  ChainMainnet,
	Address:  common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"),
	Symbol:   "WETH",
	Name:     "Wrapped Ether",
	Decimals: 18,
}

// USDC is USD Coin on Ethereum mainnet
var USDC = Token{
	ChainID:  ChainMainnet,
	Address:  common.HexToAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"),
	Symbol:   "USDC",
	Name:     "USD Coin",
	Decimals: 6,
}

// USDT is Tether USD on Ethereum mainnet
var USDT = Token{
	ChainID:  ChainMainnet,
	Address:  common.HexToAddress("0xdAC17F958D2ee523a2206206994597C13D831ec7"),
	Symbol:   "USDT",
	Name:     "Tether USD",
	Decimals: 6,
}

// DAI is Dai Stablecoin on Ethereum mainnet
var DAI = Token{
	ChainID:  ChainMainnet,
	Address:  common.HexToAddress("0x6B175474E89094C44Da98b954EedeAC495271d0F"),
	Symbol:   "DAI",
	Name:     "Dai Stablecoin",
	Decimals: 18,
}

// WETH9 maps chain ids to the wrapped native token the routers unwrap into
var WETH9 = map[int64]Token{
	ChainMainnet: WETH,
	10:           {ChainID: 10, Address: common.HexToAddress("0x4200000000000000000000000000000000000006"), Symbol: "WETH", Name: "Wrapped Ether", Decimals: 18},
	8453:         {ChainID: 8453, Address: common.HexToAddress("0x4200000000000000000000000000000000000006"), Symbol: "WETH", Name: "Wrapped Ether", Decimals: 18},
	42161:        {ChainID: 42161, Address: common.HexToAddress("0x82aF49447D8a07e3bd95BD0d56f35241523fBab1"), Symbol: "WETH", Name: "Wrapped Ether", Decimals: 18},
	11155111:     {ChainID: 11155111, Address: common.HexToAddress("0xfFf9976782d46CC05630D1f6eBAb18b2324d6B14"), Symbol: "WETH", Name: "Wrapped Ether", Decimals: 18},
}
