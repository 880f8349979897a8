package messaging

import (
	"context"

	"go.uber.org/zap"
)

// LogGateway only logs. Used in development.
type LogGateway struct {
	logger *zap.Logger
}

func NewLogGateway(logger *zap.Logger) *LogGateway {
	return &LogGateway{logger: logger}
}

func (g *LogGateway) Send(ctx context.Context, toPhone, text string) (SendResult, error) {
	g.logger.Info("outbound message", zap.String("to", toPhone), zap.String("text", text))
	return SendResult{Success: true, Message: "logged"}, nil
}
