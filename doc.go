// Package loom is a typed service-composition container built around
// tokens. Callers declare typed tokens, describe how each service is built
// with a factory, and resolve a lazily wired object graph on demand.
//
// # Quick Start
//
// Declare tokens, factories, and a registry:
//
//	var (
//	    ConfigToken = loom.NewToken[*Config]("config")
//	    AppToken    = loom.NewToken[*App]("app")
//	)
//
//	reg, err := loom.New(
//	    loom.Singleton(ConfigToken, func(ctx context.Context, args loom.Args) (*Config, error) {
//	        return &Config{Base: "base"}, nil
//	    }),
//	    loom.Singleton(AppToken, func(ctx context.Context, args loom.Args) (*App, error) {
//	        cfg := loom.Arg[*Config](args, 0)
//	        return &App{Config: cfg}, nil
//	    }).DependsOn(ConfigToken.Dep()),
//	)
//
//	app, err := loom.Resolve(ctx, reg, AppToken)
//
// # Tokens
//
// A token is an identity, not a name: two tokens created with the same
// display name are distinct services. The display name only shows up in
// errors and graph output.
//
// # Factories
//
// Singleton builds once and serves the cached value to every caller until
// the registry disposes it. Concurrent resolutions of the same singleton
// share one build. OneShot builds fresh on every resolution.
//
// Dependencies are declared with DependsOn and delivered to the build
// function positionally:
//
//	loom.Singleton(ServerToken, buildServer).
//	    DependsOn(ConfigToken.Dep(), LoggerToken.Dep()).
//	    Dispose(func(ctx context.Context, s *Server) error {
//	        return s.Shutdown(ctx)
//	    })
//
// # Selectors
//
// A SelectorToken groups same-typed tokens so a service can choose among
// them at call time. The dependent build function receives a *Selector[T]
// instead of a concrete value:
//
//	var SendersToken = loom.NewSelectorToken(SMSToken, EmailToken)
//
//	loom.Singleton(NotifierToken, func(ctx context.Context, args loom.Args) (*Notifier, error) {
//	    senders := loom.Arg[*loom.Selector[Sender]](args, 0)
//	    return &Notifier{senders: senders}, nil
//	}).DependsOn(SendersToken.Dep())
//
// # Validation
//
// New validates the whole graph before returning a registry: factories
// depending on their own token, dependency tokens with no factory
// (including selector members), and dependency cycles are all rejected with
// a graph-definition error. Use IsGraphDefinition, IsNotFound, and friends
// to classify failures.
//
// # Composition and overrides
//
// Registries are immutable. To override a factory, build a new registry
// from the old one plus replacements; the last factory registered for a
// token wins:
//
//	testReg, err := loom.New(prodReg, loom.Singleton(ConfigToken, buildTestConfig))
//
// # Teardown
//
// Dispose runs the factories' dispose hooks in reverse dependency order,
// optionally restricted to scoped factories:
//
//	loom.Singleton(DBToken, buildDB).InScope("request")
//	...
//	err := reg.Dispose(ctx, "request")
//
// Disposed singletons rebuild on the next resolution.
//
// # Graph output
//
// PrintGraph, PrintGraphDOT, and PrintGraphMermaid render the dependency
// graph; Factories returns the structural view they are built from.
package loom
