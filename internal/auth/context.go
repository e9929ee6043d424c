// internal/auth/context.go
//
// Request-scoped identity helpers.
//
// Usage
// -----
//     // Attach user 123 to the request context (done by Middleware).
//     ctx = auth.WithUser(ctx, 123)
//
//     // Downstream code retrieves the ID.
//     id, ok := auth.UserID(ctx)   // 123, true
//
// Notes
// -----
// • The local user ID is an int64 primary key from the `user` table, not the
//   auth provider's subject.
// • Oxford commas, two spaces after periods.

package auth

import "context"

// userKey is unexported to avoid context-key collisions.
type userKey struct{}

// WithUser returns a new context carrying the given userID.
func WithUser(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userKey{}, userID)
}

// UserID extracts the userID from ctx.  It returns (0, false) if no user is set.
func UserID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userKey{}).(int64)
	return id, ok
}
