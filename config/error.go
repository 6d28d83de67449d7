package config

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/PandrPi/ProgramViewer3.0/commonerrors"
)

// WrapFieldValidationError creates an error resulting from the validation of a field in a structure
func WrapFieldValidationError(fieldName string, mapStructure *string, err error) IValidationError {
	vErr := newValidationError(err)
	if vErr == nil {
		return nil
	}
	vErr.RecordField(fieldName, mapStructure)
	return vErr
}

// IValidationError defines a typical structure validation error.
type IValidationError interface {
	error
	GetMapStructurePath() string
	GetTreePath() string
	GetReason() string
	Unwrap() error
	RecordField(fieldName string, mapStructureFieldName *string)
}

type validationError struct {
	tree             []string
	mapStructureTree []string
	reason           string
}

func (v *validationError) RecordField(fieldName string, mapStructureFieldName *string) {
	v.tree = append([]string{strings.TrimSpace(fieldName)}, v.tree...)
	if mapStructureFieldName != nil {
		v.mapStructureTree = append([]string{strings.ToUpper(strings.TrimSpace(*mapStructureFieldName))}, v.mapStructureTree...)
	}
}

func (v *validationError) Error() string {
	mapstructureStr := v.GetMapStructurePath()
	if mapstructureStr != "" {
		mapstructureStr = fmt.Sprintf(" [%v]", mapstructureStr)
	}
	treeStr := v.GetTreePath()
	if treeStr != "" {
		treeStr = fmt.Sprintf(" (%v)", treeStr)
	}
	reasonStr := v.GetReason()
	if reasonStr != "" {
		reasonStr = fmt.Sprintf(" %v", reasonStr)
	}
	return commonerrors.Newf(v.Unwrap(), "structure failed validation:%v%v%v", treeStr, mapstructureStr, reasonStr).Error()
}

func (v *validationError) GetMapStructurePath() string {
	return strings.ReplaceAll(strings.Join(v.mapStructureTree, "_"), "-", "_")
}

func (v *validationError) GetTreePath() string {
	return strings.Join(v.tree, "->")
}

func (v *validationError) GetReason() string {
	return v.reason
}

func (v *validationError) Unwrap() error {
	return commonerrors.ErrInvalid
}

func newValidationError(err error) *validationError {
	if err == nil {
		return nil
	}
	var vErr *validationError
	if errors.As(err, &vErr) {
		return vErr
	}
	var oe validation.Error
	if errors.As(err, &oe) {
		return &validationError{reason: oe.Message()}
	}
	var oes validation.Errors
	if errors.As(err, &oes) && len(oes) > 0 {
		// Only the first failing field is reported
		param := slices.Sorted(maps.Keys(oes))[0]
		veo := newValidationError(oes[param])
		if veo == nil {
			veo = &validationError{reason: oes.Error()}
		}
		veo.RecordField(param, nil)
		return veo
	}
	return &validationError{reason: err.Error()}
}
