package ethereum

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"golang.org/x/sync/errgroup"
)

// MaxConcurrentCalls bounds the eth_call fan-out of Multicall
const MaxConcurrentCalls = 10

// ZeroAddress is returned by factories for venues that do not exist
var ZeroAddress = common.Address{}

// Client wraps the go-ethereum client for the snapshot fetchers
type Client struct {
	client  *ethclient.Client
	rpcURL  string
	chainID *big.Int
	mu      sync.RWMutex
}

// NewClient dials rpcURL and reads the chain id once
func NewClient(ctx context.Context, rpcURL string, timeout time.Duration) (*Client, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial rpc: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	chainID, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to read chain id: %w", err)
	}

	return &Client{
		client:  client,
		rpcURL:  rpcURL,
		chainID: chainID,
	}, nil
}

// Close closes the underlying client connection
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.client.Close()
}

func (c *Client) ChainID() *big.Int {
	return new(big.Int).Set(c.chainID)
}

// CallContract executes an eth_call against the latest block
func (c *Client) CallContract(ctx context.Context, msg ethereum.CallMsg) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.client.CallContract(ctx, msg, nil)
}

// BlockNumber returns the current block number
func (c *Client) BlockNumber(ctx context.Context) (uint64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.client.BlockNumber(ctx)
}

// Multicall runs calls concurrently and returns the results in input order.
// The first failing call cancels the rest.
func (c *Client) Multicall(ctx context.Context, calls []ethereum.CallMsg) ([][]byte, error) {
	return Multicall(ctx, c, calls)
}

// Caller is the one RPC method the fetchers need
type Caller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg) ([]byte, error)
}

// Multicall fans calls out over caller with at most MaxConcurrentCalls in flight
func Multicall(ctx context.Context, caller Caller, calls []ethereum.CallMsg) ([][]byte, error) {
	results := make([][]byte, len(calls))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(MaxConcurrentCalls)

	for i, call := range calls {
		g.Go(func() error {
			result, err := caller.CallContract(ctx, call)
			if err != nil {
				return fmt.Errorf("call %d: %w", i, err)
			}
			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
