package models

import "errors"

var errEmptyUser = errors.New("user record has neither id nor email")
