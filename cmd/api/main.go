package main

import (
	"context"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/voltbridge/ev-charging-marketplace/internal/bank"
	"github.com/voltbridge/ev-charging-marketplace/internal/cloud"
	"github.com/voltbridge/ev-charging-marketplace/internal/config"
	"github.com/voltbridge/ev-charging-marketplace/internal/events"
	httpHandlers "github.com/voltbridge/ev-charging-marketplace/internal/http"
	"github.com/voltbridge/ev-charging-marketplace/internal/service"
	"github.com/voltbridge/ev-charging-marketplace/internal/store"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	var st store.Store
	switch config.StoreKind() {
	case "memory":
		st = store.NewMemoryStore()
	default:
		pg, err := store.ConnectPostgres(config.DBDSN())
		if err != nil {
			log.Fatal().Err(err).Msg("db connect failed")
		}
		st = pg
	}
	defer st.Close()

	emitter := events.NewEmitter(log.Logger)
	var ledger bank.Ledger = bank.NewLogLedger(log.Logger)

	if broker := config.MQTTBroker(); broker != "" {
		opts := mqtt.NewClientOptions().AddBroker(broker)
		client := mqtt.NewClient(opts)
		if token := client.Connect(); token.Wait() && token.Error() != nil {
			log.Fatal().Err(token.Error()).Msg("mqtt connect")
		}
		defer client.Disconnect(250)
		ledger = bank.NewMQTTLedger(client, config.BankTopic())
		emitter = emitter.WithMQTT(client, config.EventPrefix())
	}

	var opts []service.Option
	if config.UseCloudServices() && config.SNSTopicArn() != "" {
		snsClient, err := cloud.NewSNSClient(context.Background(), config.AWSRegion(), config.SNSTopicArn())
		if err != nil {
			log.Fatal().Err(err).Msg("sns client failed")
		}
		opts = append(opts, service.WithSNS(snsClient))
	}

	svcs := service.New(st, ledger, emitter, opts...)
	if err := svcs.Init(context.Background(), config.Denom()); err != nil {
		log.Fatal().Err(err).Msg("market init failed")
	}

	app := fiber.New()
	app.Get("/health", func(c *fiber.Ctx) error { return c.SendString("ok") })
	httpHandlers.Register(app, svcs)

	addr := config.APIAddr()
	log.Info().Str("addr", addr).Str("denom", config.Denom()).Msg("api listening")
	log.Fatal().Err(app.Listen(addr)).Msg("server exit")
}
