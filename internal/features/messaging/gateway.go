package messaging

import (
	"context"
	"fmt"

	"go-backoffice/internal/config"
	"go-backoffice/internal/metrics"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

type SendResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Gateway delivers a text message to a phone number.
type Gateway interface {
	Send(ctx context.Context, toPhone, text string) (SendResult, error)
}

// NewGateway picks the driver named by MESSAGING_DRIVER. The http driver without
// credentials degrades to the log driver.
func NewGateway(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) (Gateway, error) {
	var (
		gw  Gateway
		err error
	)

	driver := cfg.MessagingDriver
	switch driver {
	case "http":
		if cfg.WhatsAppAccessToken == "" || cfg.WhatsAppPhoneID == "" {
			logger.Warn("whatsapp credentials missing, falling back to log driver")
			driver = "log"
			gw = NewLogGateway(logger)
			break
		}
		gw = NewHTTPGateway(cfg.WhatsAppAPIURL, cfg.WhatsAppPhoneID, cfg.WhatsAppAccessToken)
	case "amqp":
		var amqpGw *AMQPGateway
		amqpGw, err = DialAMQP(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPRoutingKey)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return amqpGw.Close()
			},
		})
		gw = amqpGw
	case "log", "":
		driver = "log"
		gw = NewLogGateway(logger)
	default:
		return nil, fmt.Errorf("unknown messaging driver %q", cfg.MessagingDriver)
	}

	logger.Info("messaging gateway ready", zap.String("driver", driver))
	return Instrument(gw, driver), nil
}

type instrumented struct {
	next   Gateway
	driver string
}

// Instrument counts every send by driver and outcome.
func Instrument(gw Gateway, driver string) Gateway {
	return &instrumented{next: gw, driver: driver}
}

func (g *instrumented) Send(ctx context.Context, toPhone, text string) (SendResult, error) {
	res, err := g.next.Send(ctx, toPhone, text)
	metrics.RecordOutboundMessage(g.driver, err == nil && res.Success)
	return res, err
}
