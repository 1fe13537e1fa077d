// Package tokenstore persists the single OAuth2 credential of a local installation.
//
// Three backends with different security and deployment tradeoffs:
//   - File: JSON record on the local filesystem, atomic writes, 0600 permissions
//   - Keyring: OS-native credential storage (macOS Keychain, Windows Credential Manager, etc.)
//   - Env: read-only refresh token from an environment variable (headless use)
//
// Stores perform no locking. Two CLI processes authorizing at the same time race
// on the record and the last write wins.
package tokenstore
