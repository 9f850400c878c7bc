package reporter

import (
	"time"

	"github.com/rs/zerolog"
)

// New создаёт reporter. interval <= 0 отключает периодический отчёт.
func New(src StatsSource, interval time.Duration, log zerolog.Logger) *Reporter {
	return &Reporter{
		src:      src,
		interval: interval,
		log:      log,
	}
}
