package user

import "errors"

var (
	ErrIdentityMissing        = errors.New("user data not loaded, please log in again")
	ErrAdminPrivilegeRequired = errors.New("admin privilege required")
	ErrInvalidToken           = errors.New("invalid token")
)
