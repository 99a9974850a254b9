// Package server provides the HTTP server for the SellerDash page and API.
//
// This package is internal to SellerDash and handles all HTTP concerns:
//
//   - Page serving: Renders the dashboard at "/" from the embedded templates
//   - Forms: Add, delete (with a confirmation step) and edit products
//   - Navigation: Switches the visible section at "/sections/{name}"
//   - Fragments: Region HTML at "/fragments/{region}" for in-place refresh
//   - REST API: JSON snapshots at "/api/products" and "/api/notifications"
//   - Server-Sent Events: Re-render notices at "/api/sse"
//
// The server supports graceful shutdown via context cancellation, with a
// 5-second timeout for in-flight requests.
//
// Users of the sellerdash library should not need to interact with this
// package directly. The server is started automatically by [sellerdash.SellerDash.Start].
package server
