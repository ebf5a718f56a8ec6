// Package password hashea y verifica passwords de usuario con bcrypt.
package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost es el costo bcrypt usado al registrar.
const DefaultCost = 10

// ErrEmpty se retorna al intentar hashear un password vacío.
var ErrEmpty = errors.New("empty password")

// Hash devuelve el hash bcrypt de plain. cost fuera de rango usa DefaultCost.
func Hash(plain string, cost int) (string, error) {
	if plain == "" {
		return "", ErrEmpty
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", fmt.Errorf("password: hash: %w", err)
	}
	return string(b), nil
}

// Verify compara plain contra hash en tiempo constante.
func Verify(plain, hash string) bool {
	if plain == "" || hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
