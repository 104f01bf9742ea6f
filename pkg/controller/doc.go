// Package controller contains HTTP middlewares and helper handlers used by the site server.
//
// Provided middlewares:
//   - WithCORS: Applies the configured CORS policy and answers preflight requests.
//   - WithNoCache: Marks responses as non-cacheable (used for layout fragments).
//   - WithLogger: Attaches a request-scoped logger and request ID to the context and logs access info.
//
// Provided helpers:
//   - PprofMux: Returns a ServeMux exposing net/http/pprof handlers.
//   - GetClientIP: Best-effort originating client address.
//   - RequestID: The request ID assigned by WithLogger.
package controller
