package service

import "errors"

var (
	ErrValidation         = errors.New("validation")          // 400
	ErrUnsupportedPayment = errors.New("unsupported payment") // 400
	ErrConflict           = errors.New("conflict")            // 409
)
