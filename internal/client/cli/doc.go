// Package cli provides the interactive invoicekeeper command-line client.
//
// It wires configuration, the record store, application services and an
// interactive REPL. Typical flow: open the store, seed demo data on first
// start, restore the saved session (or prompt for login) and execute user
// commands until exit.
//
// Key features:
//   - Register / Login / Logout with a session that survives restarts
//   - Clients and products catalogues
//   - Invoices: create, show, change status, record payments, delete
//   - Summary of invoiced, received and outstanding amounts
//   - XLSX export to local disk or S3
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
