package domain

// SubjectID is the authenticated subject extracted from JWT claims (typically "sub").
// We model it as an opaque identifier: its format is controlled by the IdP.
type SubjectID string

// ProfileID is an internal identifier for a profile record.
type ProfileID string

// GroupID identifies a business group (a fleet-owning account).
type GroupID string

// TripID is an internal identifier for a trip record.
type TripID string
