package reporter

import (
	"time"

	"github.com/rs/zerolog"

	storage "lrukv/internal/storage/cache"
)

// StatsSource — то, с чего снимаются показатели. *storage.Cache[V] подходит для любого V.
type StatsSource interface {
	Stats() storage.Stats
	Len() int
	MaxSize() int
}

// Reporter — фоновая задача: раз в interval пишет в лог состояние кеша.
type Reporter struct {
	src      StatsSource
	interval time.Duration
	log      zerolog.Logger
}
