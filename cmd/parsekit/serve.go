package main

import (
	parsekithttp "github.com/fwojciec/parsekit/http"
)

// Run executes the serve command. It blocks until the context is canceled.
func (c *ServeCmd) Run(deps *Dependencies) error {
	s := parsekithttp.NewServer()
	s.Addr = deps.Config.Server.Addr
	if c.Addr != "" {
		s.Addr = c.Addr
	}
	s.Version = deps.Version
	s.ParseService = deps.Parse
	s.BatchService = deps.Batch
	s.Logger = deps.Logger

	if err := s.Open(); err != nil {
		return err
	}
	deps.Logger.Info("serving", "url", s.URL(), "version", s.Version)

	<-deps.Ctx.Done()
	deps.Logger.Info("shutting down")
	return s.Close()
}
