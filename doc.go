// Package flint is the Go client for the Flint search service.
//
// # Indexes
//
// All interaction happens through a Client, which maps index management
// intents onto HTTP calls, and through Index handles the client hands out:
//
//	client := flint.New("http://localhost:7700", flint.WithAPIKey(key))
//	index, err := client.CreateIndex(ctx, "movies", "movieId")
//
// An Index handle is a local reference to a remote index. Handles returned by
// CreateIndex, GetIndex and GetAllIndexes carry the server-acknowledged
// primary key and timestamps; a handle obtained with Client.Index is a bare
// reference whose primary key is unknown until fetched:
//
//	index := client.Index("movies") // no remote call, no existence guarantee
//	pk, err := index.FetchPrimaryKey(ctx)
//
// Deleting an index removes the remote resource only; existing handles become
// dangling references the caller must stop using.
//
// # Errors
//
// Service failures surface as *Error values carrying the stable error code
// reported by the server ("index_not_found", "index_already_exists", ...).
// The code enumeration is open: unrecognized codes pass through verbatim.
// Failures to reach the server at all surface as *TransportError, so callers
// can tell a rejected request from a broken connection:
//
//	if flint.IsNotFound(err) { ... }
//
// Two operations absorb expected failures: DeleteIfExists converts
// "index_not_found" into a false result, and GetOrCreateIndex converts a lost
// creation race into one more fetch.
//
// # Testing
//
// The mock package contains an in-process Flint server backed by an in-memory
// store. The integration tests in this package run against it.
package flint
