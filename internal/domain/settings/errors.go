package settings

import "errors"

var (
	ErrSettingsNotFound = errors.New("attendance settings not found")
	ErrForbidden        = errors.New("only admin or hr can manage attendance settings")
)
