// Package ratelimit keeps sequential batches polite towards Instagram.
//
// A Pacer inserts a fixed pause between consecutive steps and never after
// the last one:
//
//	pacer := ratelimit.NewPacer(2 * time.Second)
//	for i, url := range urls {
//	    resolve(url)
//	    if err := pacer.After(ctx, i, len(urls)); err != nil {
//	        break
//	    }
//	}
//
// FakeClock substitutes for real sleeping in tests.
package ratelimit
