// Package metis is the client side of the Metis placement platform: it keeps local,
// joined copies of the server's records for each app and keeps them in sync.
//
// # Client
//
// A [Client] bundles the pieces every store needs: the Remote Client talking to the
// REST API, the Event Relay carrying editor requests, a logger and a metrics recorder.
// Build it with [New] from any [connection.Remote], or with [FromEndpointURLString]
// for the HTTP transport.
//
// # Stores
//
// Each app has its own store. The education office store in
// [github.com/metis-placement/metis.go/pkg/store/educationoffice] carries the
// scope-driven fetch chain; the others are thin holders of seeded data with a fetch
// or two.
//
// Stores never block the caller on each other. Selecting another project abandons
// whatever the previous selection was still loading.
//
// # Server push
//
// [Client.Follow] drains a [gorillaws.Feed] into a store, so records changed by other
// users show up without refetching.
package metis
