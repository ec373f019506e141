package sigcarve

import (
	"context"
	"sync"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/sigcarve/match"
)

// scanLen is the length of the window match.Search uses for offset.
func scanLen(buf []byte, offset int) int {
	if offset > 0 && offset < len(buf) {
		return offset
	}
	return len(buf)
}

// find returns the start offset of every occurrence of pattern, including
// overlapping ones, within the window selected by offset.
//
// With more than one worker the window is cut into chunks scanned in
// parallel. A chunk is extended by len(pattern)-1 bytes so it sees every
// occurrence that starts inside it, and none that starts after it.
func (c *Carver) find(ctx context.Context, buf, pattern []byte, offset int) (*roaring64.Bitmap, error) {
	n := scanLen(buf, offset)
	chunk := c.opts.chunkSize

	if c.rc.MaxWorkers() <= 1 || n <= chunk {
		bm := roaring64.New()
		match.All(buf, pattern, offset, 1, func(at int) bool {
			bm.Add(uint64(at))
			return true
		})
		return bm, ctx.Err()
	}

	var mu sync.Mutex
	result := roaring64.New()

	g, gctx := errgroup.WithContext(ctx)
	for lo := 0; lo < n; lo += chunk {
		if err := c.rc.AcquireWorker(gctx); err != nil {
			break
		}
		hi := min(lo+chunk+len(pattern)-1, n)
		g.Go(func() error {
			defer c.rc.ReleaseWorker()
			if err := gctx.Err(); err != nil {
				return err
			}
			local := roaring64.New()
			match.All(buf[lo:hi], pattern, 0, 1, func(at int) bool {
				local.Add(uint64(lo + at))
				return true
			})
			mu.Lock()
			result.Or(local)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, ctx.Err()
}
