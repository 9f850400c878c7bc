package reporter

import (
	"context"
	"time"
)

/*
	Run блокируется до отмены ctx.
	Каждые interval пишет одну строку со счётчиками кеша.
	При interval <= 0 просто ждёт ctx, чтобы его можно было
	запускать в errgroup наравне с сервером.
*/

func (r *Reporter) Run(ctx context.Context) error {
	if r.interval <= 0 {
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.Report()
		case <-ctx.Done():
			r.Report()
			return nil
		}
	}
}

// Report пишет текущее состояние кеша одной записью.
func (r *Reporter) Report() {
	st := r.src.Stats()

	var ratio float64
	if lookups := st.Hits + st.Misses; lookups > 0 {
		ratio = float64(st.Hits) / float64(lookups)
	}

	r.log.Info().
		Int("keys", r.src.Len()).
		Int("max_size", r.src.MaxSize()).
		Uint64("hits", st.Hits).
		Uint64("misses", st.Misses).
		Float64("hit_ratio", ratio).
		Uint64("sets", st.Sets).
		Uint64("removes", st.Removes).
		Uint64("evictions", st.Evictions).
		Msg("cache stats")
}
