package firestore

import (
	"context"
	"errors"
	"fmt"

	fs "cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/innocentmk82/efecosall-sub001/internal/platform/sentinel"
)

// Collection names shared by every Firestore repository.
const (
	ProfilesCollection        = "profiles"
	ProfileSubjectsCollection = "profileSubjects"
	GroupsCollection          = "businessGroups"
	TripsCollection           = "trips"
)

// NewClient opens a Firestore client for projectID. When FIRESTORE_EMULATOR_HOST is set
// the client library talks to the emulator instead.
func NewClient(ctx context.Context, projectID string) (*fs.Client, error) {
	if projectID == "" {
		return nil, errors.New("FIRESTORE_PROJECT_ID is required for firestore storage")
	}
	c, err := fs.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("open firestore client: %w", err)
	}
	return c, nil
}

// IsNotFound reports whether err is a gRPC NotFound.
func IsNotFound(err error) bool { return status.Code(err) == codes.NotFound }

// IsAlreadyExists reports whether err is a gRPC AlreadyExists.
func IsAlreadyExists(err error) bool { return status.Code(err) == codes.AlreadyExists }

// Classify wraps transport failures in sentinel.ErrUnavailable and leaves everything else alone.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	switch status.Code(err) {
	case codes.Unavailable, codes.DeadlineExceeded, codes.ResourceExhausted, codes.Aborted:
		return fmt.Errorf("%w: %v", sentinel.ErrUnavailable, err)
	default:
		return err
	}
}
