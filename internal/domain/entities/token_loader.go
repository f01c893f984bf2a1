package entities

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// TokenConfig represents token configuration from JSON
type TokenConfig struct {
	ChainID    int64  `json:"chainId"`
	Address    string `json:"address"`
	Symbol     string `json:"symbol"`
	Name       string `json:"name"`
	Decimals   uint8  `json:"decimals"`
	BuyFeeBps  uint32 `json:"buyFeeBps"`
	SellFeeBps uint32 `json:"sellFeeBps"`
}

// TokensConfig represents the tokens.json structure
type TokensConfig struct {
	Tokens []TokenConfig `json:"tokens"`
}

// TokenRegistry holds loaded tokens indexed by address and symbol
type TokenRegistry struct {
	byAddress map[common.Address]Token
	bySymbol  map[string]Token
	all       []Token
}

func NewTokenRegistry() *TokenRegistry {
	return &TokenRegistry{
		byAddress: make(map[common.Address]Token),
		bySymbol:  make(map[string]Token),
		all:       make([]Token, 0),
	}
}

// LoadFromFile loads tokens from a JSON config file. Tokens without a chain id
// default to mainnet.
func (r *TokenRegistry) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read token config: %w", err)
	}

	var config TokensConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return fmt.Errorf("failed to parse token config: %w", err)
	}

	for _, tc := range config.Tokens {
		if !common.IsHexAddress(tc.Address) {
			return fmt.Errorf("invalid address for token %s: %q", tc.Symbol, tc.Address)
		}
		if tc.BuyFeeBps > 10000 || tc.SellFeeBps > 10000 {
			return fmt.Errorf("token %s: fee bps above 10000", tc.Symbol)
		}
		chainID := tc.ChainID
		if chainID == 0 {
			chainID = ChainMainnet
		}
		r.Register(Token{
			ChainID:    chainID,
			Address:    common.HexToAddress(tc.Address),
			Symbol:     tc.Symbol,
			Name:       tc.Name,
			Decimals:   tc.Decimals,
			BuyFeeBps:  tc.BuyFeeBps,
			SellFeeBps: tc.SellFeeBps,
		})
	}

	return nil
}

// Register adds a token to the registry, replacing any token with the same address
func (r *TokenRegistry) Register(token Token) {
	if old, ok := r.byAddress[token.Address]; ok {
		for i, t := range r.all {
			if t.Address == old.Address {
				r.all = append(r.all[:i], r.all[i+1:]...)
				break
			}
		}
		delete(r.bySymbol, strings.ToUpper(old.Symbol))
	}
	r.byAddress[token.Address] = token
	r.bySymbol[strings.ToUpper(token.Symbol)] = token
	r.all = append(r.all, token)
}

func (r *TokenRegistry) GetByAddress(addr common.Address) (Token, bool) {
	token, ok := r.byAddress[addr]
	return token, ok
}

// GetBySymbol looks a token up case-insensitively
func (r *TokenRegistry) GetBySymbol(symbol string) (Token, bool) {
	token, ok := r.bySymbol[strings.ToUpper(symbol)]
	return token, ok
}

// Resolve accepts either a hex address or a symbol
func (r *TokenRegistry) Resolve(s string) (Token, bool) {
	if common.IsHexAddress(s) {
		return r.GetByAddress(common.HexToAddress(s))
	}
	return r.GetBySymbol(s)
}

// GetAll returns all registered tokens
func (r *TokenRegistry) GetAll() []Token {
	return r.all
}

func (r *TokenRegistry) Count() int {
	return len(r.all)
}

// DefaultRegistry returns a registry with hardcoded default tokens
// Use this as fallback if config file is not available
func DefaultRegistry() *TokenRegistry {
	r := NewTokenRegistry()
	r.Register(WETH)
	r.Register(USDC)
	r.Register(USDT)
	r.Register(DAI)
	return r
}
