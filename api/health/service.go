// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package health

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/rpc/v2"
	"go.uber.org/zap"

	evmjson "github.com/ava-labs/evmindex/utils/json"
	"github.com/ava-labs/evmindex/utils/logging"
)

// Service wraps a [Reporter] to be served over JSON-RPC.
type Service struct {
	log    logging.Logger
	health Reporter
}

// APIReply is the response for Readiness, Health, and Liveness.
type APIReply struct {
	Checks  map[string]Result `json:"checks"`
	Healthy bool              `json:"healthy"`
}

// Readiness returns if the indexer has finished initialization
func (s *Service) Readiness(_ *http.Request, _ *struct{}, reply *APIReply) error {
	s.log.Debug("API called",
		zap.String("service", "health"),
		zap.String("method", "readiness"),
	)
	reply.Checks, reply.Healthy = s.health.Readiness()
	return nil
}

// Health returns a summation of the health of the indexer
func (s *Service) Health(_ *http.Request, _ *struct{}, reply *APIReply) error {
	s.log.Debug("API called",
		zap.String("service", "health"),
		zap.String("method", "health"),
	)
	reply.Checks, reply.Healthy = s.health.Health()
	return nil
}

// Liveness returns if the indexer is in need of a restart
func (s *Service) Liveness(_ *http.Request, _ *struct{}, reply *APIReply) error {
	s.log.Debug("API called",
		zap.String("service", "health"),
		zap.String("method", "liveness"),
	)
	reply.Checks, reply.Healthy = s.health.Liveness()
	return nil
}

// NewGetAndPostHandler returns a health handler that supports GET and jsonrpc
// POST requests.
func NewGetAndPostHandler(log logging.Logger, reporter Reporter) (http.Handler, error) {
	newServer := rpc.NewServer()
	codec := evmjson.NewCodec()
	newServer.RegisterCodec(codec, "application/json")
	newServer.RegisterCodec(codec, "application/json;charset=UTF-8")

	getHandler := NewGetHandler(reporter.Health)

	err := newServer.RegisterService(
		&Service{
			log:    log,
			health: reporter,
		},
		"health",
	)
	if err != nil {
		return nil, err
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			getHandler.ServeHTTP(w, r)
			return
		}
		newServer.ServeHTTP(w, r)
	}), nil
}

// NewGetHandler return a health handler that supports GET requests reporting
// the result of the provided [reporter].
func NewGetHandler(reporter func() (map[string]Result, bool)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		// Make sure the content type is set before writing the header.
		w.Header().Set("Content-Type", "application/json")

		checks, healthy := reporter()
		if !healthy {
			// If a health check has failed, we should return a 503.
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		// The encoder will call write on the writer, which will write the
		// header with a 200.
		_ = json.NewEncoder(w).Encode(APIReply{
			Checks:  checks,
			Healthy: healthy,
		})
	})
}
