// Package email resuelve la configuración SMTP de un remitente y envía
// mensajes a través de go-mail.
//
// Flujo de un envío:
//
//	┌──────────────────────────────────────────────┐
//	│           mail.DispatchService               │
//	└──────────────────────┬───────────────────────┘
//	                       │ Resolve(provider, from, appPassword)
//	                       ▼
//	┌──────────────────────────────────────────────┐
//	│  TransportConfig (host, port, TLS, timeout)  │
//	└──────────────────────┬───────────────────────┘
//	                       │ TransportFactory.New(cfg)
//	                       ▼
//	┌──────────────────────────────────────────────┐
//	│  SMTPSender (go-mail Dialer + Message)       │
//	└──────────────────────────────────────────────┘
//
// Resolve es puro. Ni la configuración resuelta ni las credenciales se persisten.
package email
