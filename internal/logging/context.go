package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// FromContext достаёт логгер из ctx. Без логгера возвращает выключенный.
func FromContext(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}

// WithContext кладёт логгер в ctx.
func WithContext(ctx context.Context, logger zerolog.Logger) context.Context {
	return logger.WithContext(ctx)
}

// WithComponent добавляет поле component к логгеру из ctx.
func WithComponent(ctx context.Context, component string) context.Context {
	logger := FromContext(ctx).With().Str("component", component).Logger()
	return WithContext(ctx, logger)
}
