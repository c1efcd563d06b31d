// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - auth: API key validation through the X-API-Key header or api_key query.
//   - rayid: a request id per request, stored in the fiber locals for
//     logger.WithRayID and echoed in the X-Ray-ID response header.
package middleware
