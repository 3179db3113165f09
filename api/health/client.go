// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package health

import (
	"context"
	"time"

	"github.com/ava-labs/evmindex/utils/rpc"
)

// Client for the health API
type Client struct {
	requester rpc.EndpointRequester
}

// NewClient returns a client to interact with the health API served at [uri]
func NewClient(uri string) *Client {
	return &Client{requester: rpc.NewEndpointRequester(
		uri + "/ext/health",
	)}
}

func (c *Client) Readiness(ctx context.Context, options ...rpc.Option) (*APIReply, error) {
	res := &APIReply{}
	err := c.requester.SendRequest(ctx, "health.readiness", struct{}{}, res, options...)
	return res, err
}

func (c *Client) Health(ctx context.Context, options ...rpc.Option) (*APIReply, error) {
	res := &APIReply{}
	err := c.requester.SendRequest(ctx, "health.health", struct{}{}, res, options...)
	return res, err
}

func (c *Client) Liveness(ctx context.Context, options ...rpc.Option) (*APIReply, error) {
	res := &APIReply{}
	err := c.requester.SendRequest(ctx, "health.liveness", struct{}{}, res, options...)
	return res, err
}

// AwaitReady polls every [freq] until the indexer reports ready.
// Only returns an error if [ctx] returns an error.
func AwaitReady(ctx context.Context, c *Client, freq time.Duration, options ...rpc.Option) (bool, error) {
	return await(ctx, freq, c.Readiness, options...)
}

// AwaitHealthy polls every [freq] until the indexer reports healthy.
// Only returns an error if [ctx] returns an error.
func AwaitHealthy(ctx context.Context, c *Client, freq time.Duration, options ...rpc.Option) (bool, error) {
	return await(ctx, freq, c.Health, options...)
}

func await(
	ctx context.Context,
	freq time.Duration,
	check func(ctx context.Context, options ...rpc.Option) (*APIReply, error),
	options ...rpc.Option,
) (bool, error) {
	ticker := time.NewTicker(freq)
	defer ticker.Stop()

	for {
		res, err := check(ctx, options...)
		if err == nil && res.Healthy {
			return true, nil
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return false, ctx.Err()
		}
	}
}
