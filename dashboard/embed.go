// Package dashboard provides the embedded HTML templates for SellerDash.
//
// This package uses Go's embed directive to include the page layout and the
// region fragments at compile time. This enables single-binary deployment
// without external asset files.
//
// The templates are parsed by the view package and executed by the server.
// Users of the sellerdash library should not need to interact with this
// package directly.
package dashboard

import "embed"

// Assets is an embedded filesystem containing the dashboard templates.
//
// The filesystem structure is:
//
//	assets/
//	  index.html      - "page": full layout with tabs, sections and product form
//	  fragments.html  - "products", "notifications", "orders", "alerts", "tabs"
//	  confirm.html    - "confirm_delete": delete confirmation step
//
//go:embed assets/*
var Assets embed.FS
