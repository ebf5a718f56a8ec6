package repository

import "errors"

var (
	// ErrNotFound indica que el usuario solicitado no existe.
	ErrNotFound = errors.New("not found")

	// ErrEmailTaken indica que ya existe un usuario con ese email.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidInput indica que los datos de entrada son inválidos.
	ErrInvalidInput = errors.New("invalid input")
)

// IsNotFound verifica si el error es ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsEmailTaken verifica si el error es ErrEmailTaken.
func IsEmailTaken(err error) bool {
	return errors.Is(err, ErrEmailTaken)
}
