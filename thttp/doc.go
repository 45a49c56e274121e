// Package thttp contains HTTP server and client utilities.
//
// # HTTP Server
//
// Most use cases for http.Server are covered by thttp.Server with the following
// advantages:
//
// * Instead of pre-context-era start-and-stop paradigm, thttp.Server is
// controlled with a context passed to its Run method. This fits much better
// into hierarchies of internal components that need to be started and shut down
// as a whole. Plays especially nice with parallel.Run.
//
// * The server code ensures that every incoming request has a context inherited
// from the context passed to Run, thus supporting the global expectation that
// every context contains a logger.
//
// * The somewhat tricky graceful shutdown sequence is taken care of by
// thttp.Server.
//
// Note that only a single handler is passed to thttp.NewServer as its second
// argument. Most use cases will need path-based routing. The standard solution
// is to use github.com/gorilla/mux as the mock package does.
//
// # Middleware
//
// A middleware is a function that takes an http.Handler and returns an
// http.Handler, usually wrapping the handler with code that runs before, after
// or even instead of the one being wrapped.
//
// One can use a middleware to wrap a handler manually:
//
//	handler = thttp.CORS(handler)
//
// A middleware can also be applied to the mux router or a sub-router:
//
//	router.Use(thttp.CORS)
//
// To apply a handler to all requests handled by the server, which is
// the most common use case, it's convenient to use thttp.Wrap function.
// This function takes any number of middleware, which are applied in
// order so that the first one listed is the first to see the incoming request.
//
//	server := thttp.NewServer(listener,
//	    thttp.Wrap(handler, thttp.StandardMiddleware, thttp.LogBodies))
//
// It is recommended to include at least thttp.StandardMiddleware, and put it
// first. This single middleware is equivalent to listing thttp.Log,
// thttp.Recover and thttp.CORS, in this order. It does not include LogBodies
// because its use is less universal.
//
// # Request context
//
// In an HTTP handler, r.Context() returns the request context. It is a
// descendant of the context passed into the Run method of thttp.Server, and
// contains all the values stored there. However, during shutdown it will stay
// open for somewhat longer than the parent context to allow current running
// requests to complete.
//
// # Logging guidelines
//
// For all logging in HTTP handlers, use the logger embedded in the request
// context:
//
//	logger := tlog.Get(r.Context())
package thttp
