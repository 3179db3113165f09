// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package indexer serves read-only lookups into the mapping index over
// JSON-RPC.
package indexer

import (
	"net/http"

	"github.com/gorilla/rpc/v2"

	"github.com/ava-labs/evmindex/indexdb"
	"github.com/ava-labs/evmindex/utils/json"
	"github.com/ava-labs/evmindex/utils/logging"
)

// Endpoint is the path the mapping service is served at.
const Endpoint = "/ext/mapping"

// NewHandler returns the JSON-RPC handler of the "mapping" service reading
// from [backend].
func NewHandler(log logging.Logger, backend *indexdb.Backend) (http.Handler, error) {
	server := rpc.NewServer()
	codec := json.NewCodec()
	server.RegisterCodec(codec, "application/json")
	server.RegisterCodec(codec, "application/json;charset=UTF-8")
	if err := server.RegisterService(
		&service{
			log:     log,
			meta:    backend.Meta,
			mapping: backend.Mapping,
		},
		"mapping",
	); err != nil {
		return nil, err
	}
	return server, nil
}
