// Package repository define el modelo de dominio y el contrato de persistencia de usuarios.
//
// El contrato es independiente del almacenamiento (MongoDB, PostgreSQL, memoria).
// Las implementaciones viven en internal/store/adapters/.
//
//	┌──────────────────────────────────────┐
//	│        Services / Controllers        │
//	└──────────────────────────────────────┘
//	                   │
//	                   ▼
//	┌──────────────────────────────────────┐
//	│   domain/repository (UserRepository) │
//	└──────────────────────────────────────┘
//	                   │
//	      ┌────────────┼────────────┐
//	      ▼            ▼            ▼
//	┌──────────┐ ┌──────────┐ ┌──────────┐
//	│  mongo   │ │    pg    │ │  memory  │
//	└──────────┘ └──────────┘ └──────────┘
//
// Convenciones:
//   - Context siempre es el primer parámetro.
//   - El historial de envíos solo crece: AppendHistory es atómico en todos los adapters.
//   - Errores de dominio en errors.go.
package repository
