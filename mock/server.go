// Package mock is an in-process Flint service backed by an in-memory store.
//
// It is what the SDK's integration tests run against, and it can be served
// standalone via Main for local development.
package mock

import (
	"context"
	"net"

	"github.com/flintsearch/flint"
	"github.com/flintsearch/flint/run"
	"github.com/flintsearch/flint/thttp"
	"github.com/flintsearch/flint/tnet"
	"github.com/ridge/parallel"
	"github.com/spf13/pflag"
)

// Service is a mock Flint server
type Service struct {
	store   *store
	events  *broadcaster
	version flint.Version
}

// New creates an empty mock service
func New() *Service {
	return &Service{
		store:   newStore(),
		events:  newBroadcaster(),
		version: flint.Version{Version: "0.1.0-mock"},
	}
}

// Run serves the mock service on the given listener until the context closes
func (s *Service) Run(ctx context.Context, listener net.Listener) error {
	server := thttp.NewServer(listener, thttp.Wrap(s.Handler(), thttp.StandardMiddleware, thttp.LogBodies))
	return server.Run(ctx)
}

// Main handles the command line and runs the mock service
func Main(args []string) {
	run.Server(func(ctx context.Context) error {
		var addr, fixture, fixtureIndex string
		pflag.StringVar(&addr, "addr", ":7700", "address to listen on")
		pflag.StringVar(&fixture, "fixture", "", "NDJSON file with documents to seed and tail")
		pflag.StringVar(&fixtureIndex, "fixture-index", "fixture", "index to load the fixture into")
		_ = pflag.CommandLine.Parse(args[1:])

		listener, err := tnet.Listen(addr)
		if err != nil {
			return err
		}

		service := New()
		return parallel.Run(ctx, func(ctx context.Context, spawn parallel.SpawnFn) error {
			spawn("http", parallel.Fail, func(ctx context.Context) error {
				return service.Run(ctx, listener)
			})
			if fixture != "" {
				spawn("fixture", parallel.Fail, func(ctx context.Context) error {
					return service.TailFixture(ctx, fixture, fixtureIndex)
				})
			}
			return nil
		})
	})
}
