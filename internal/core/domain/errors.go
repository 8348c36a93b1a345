package domain

import "errors"

var ErrIDProvided = errors.New("id is assigned by the server")
var ErrMissingFields = errors.New("username and password are required")
var ErrUnknownPermission = errors.New("unknown permission")
var ErrInvalidCredentials = errors.New("invalid username or password")
var ErrInvalidToken = errors.New("invalid token")
var ErrForbidden = errors.New("insufficient permission to grant that tier")
var ErrUserNotFound = errors.New("user not found")
var ErrUsernameTaken = errors.New("username already taken")
