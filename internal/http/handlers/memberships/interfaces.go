package memberships

import "context"

const pkg = "membershipsHandler/"

type MembershipManager interface {
	AddDocument(ctx context.Context, caller string, collectionID string, documentID string) error
	RemoveDocument(ctx context.Context, caller string, collectionID string, documentID string) error
}

type MembershipLister interface {
	DocumentIDs(ctx context.Context, collectionID string) ([]string, error)
}
