// Package dal registra todos los adapters de almacenamiento disponibles.
// Importar con blank import desde el binario.
package dal

import (
	_ "github.com/dropDatabas3/hellomail/internal/store/adapters/memory"
	_ "github.com/dropDatabas3/hellomail/internal/store/adapters/mongo"
	_ "github.com/dropDatabas3/hellomail/internal/store/adapters/pg"
)
