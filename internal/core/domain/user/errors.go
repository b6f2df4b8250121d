package user

import "errors"

var (
	ErrUserDoesNotExist   = errors.New("user does not exist")
	ErrPhoneAlreadyExists = errors.New("phone number already exists")
)
