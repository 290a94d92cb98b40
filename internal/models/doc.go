// Package models defines the core domain models for Stockroom.
//
// # Models
//
//   - User: a registered account, identified by a unique username
//   - PublicUser: the client-facing projection of User (no password hash)
//   - InventoryItem: a stock entry scoped to the user that owns it
//   - ItemInput: the fields a client may set on an inventory item
//
// # Design Principles
//
// 1. **Owner scoping**: every InventoryItem carries the owning user's ID, and
// that ID always comes from the verified token subject
// 2. **No secrets on the wire**: anything serialized for clients goes through
// a projection type
// 3. **Soft references**: relationships are ID strings, with no referential
// integrity enforced by the store
package models
