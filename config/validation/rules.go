// Package validation defines ozzo-validation rules for Program Viewer configuration values.
package validation

import (
	"slices"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/PandrPi/ProgramViewer3.0/commonerrors"
	"github.com/PandrPi/ProgramViewer3.0/filesystem"
	"github.com/PandrPi/ProgramViewer3.0/hashing"
)

// IsHashAlgorithm checks that the value is one of the supported hashing algorithms.
func IsHashAlgorithm() validation.Rule {
	return validation.By(func(vRaw any) error {
		v, ok := vRaw.(string)
		if !ok {
			return commonerrors.Newf(commonerrors.ErrMarshalling, "unsupported type for hash validation: %T", vRaw)
		}
		if v == "" || slices.Contains(hashing.SupportedHashes, v) {
			return nil
		}
		return commonerrors.Newf(commonerrors.ErrInvalid, "unsupported hashing algorithm '%v'", v)
	})
}

// AreGlobPatterns checks that the value is a list of well-formed glob patterns.
func AreGlobPatterns() validation.Rule {
	return validation.By(func(vRaw any) error {
		v, ok := vRaw.([]string)
		if !ok {
			return commonerrors.Newf(commonerrors.ErrMarshalling, "unsupported type for pattern validation: %T", vRaw)
		}
		return filesystem.ValidateExclusionPatterns(v...)
	})
}
