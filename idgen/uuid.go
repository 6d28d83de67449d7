// Package idgen generates the identifiers used to correlate log lines of a session or of a flush.
package idgen

import (
	"github.com/gofrs/uuid/v5"

	"github.com/PandrPi/ProgramViewer3.0/commonerrors"
)

// GenerateUUID4 generates a random UUID.
func GenerateUUID4() (string, error) {
	u, err := uuid.NewV4()
	if err != nil {
		return "", commonerrors.WrapError(commonerrors.ErrUnexpected, err, "failed generating uuid")
	}
	return u.String(), nil
}

// GenerateSortableID generates a time-ordered UUID (version 7) so that flush identifiers sort chronologically.
func GenerateSortableID() (string, error) {
	u, err := uuid.NewV7()
	if err != nil {
		return "", commonerrors.WrapError(commonerrors.ErrUnexpected, err, "failed generating uuid")
	}
	return u.String(), nil
}

// MustGenerateID generates a sortable identifier and falls back to a nil UUID if the random source fails.
func MustGenerateID() string {
	id, err := GenerateSortableID()
	if err != nil {
		return uuid.Nil.String()
	}
	return id
}

func IsValidUUID(u string) bool {
	_, err := uuid.FromString(u)
	return err == nil
}
