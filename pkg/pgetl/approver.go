package pgetl

import "context"

// Approver handles user interaction for approval workflows,
// particularly for destructive operations like dropping the analytics tables.
//
// Implementations:
//   - ForcedApprover: Shows countdown and automatically approves
//   - InteractiveApprover: Prompts user to type the database name for confirmation
type Approver interface {
	// RequestApproval prompts for confirmation before dropping the tables in dbName.
	// Returns true if approved, false if denied.
	RequestApproval(ctx context.Context, dbName string) (bool, error)
}
