// Package logger expone un logger Zap único con scoping por contexto.
//
// Inicialización (una vez, en el comando serve):
//
//	logger.Init(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, ServiceName: "hellomail"})
//	defer logger.Sync()
//
// En controllers/services:
//
//	log := logger.From(ctx).With(logger.Op("DispatchService.Send"))
//	log.Info("mail sent", logger.Provider("gmail"), logger.MessageID(id))
//
// Si el middleware de logging no inyectó un logger, From devuelve el singleton.
package logger
