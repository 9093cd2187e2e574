// Package pkg provides the core libraries for patrol, a guard patrol simulator.
//
// # Overview
//
// A guard stands on a rectangular map of open cells and obstacles. Each tick
// the guard either steps forward or, when the cell ahead is an obstacle, turns
// right in place. The patrol ends when the guard walks off the map or revisits
// a position and heading it has already held. The pkg directory is organized
// into three areas:
//
//  1. Domain logic: [grid], [patrol] and [search]
//  2. Orchestration: [pipeline]
//  3. Infrastructure: [cache], [config], [errors], [observability] and [buildinfo]
//
// # Architecture
//
// The typical data flow through patrol:
//
//	Map text (file, stdin or HTTP body)
//	         ↓
//	    [grid] package (parse into Grid + starting Agent)
//	         ↓
//	    [patrol] package (walk the baseline route, detect cycles)
//	         ↓
//	    [search] package (try one obstruction per visited cell, in parallel)
//	         ↓
//	    visited count, loop count, loop positions
//
// # Quick Start
//
//	g, start, err := grid.ParseBytes(data)
//	if err != nil {
//	    return err
//	}
//
//	// 1. Walk the baseline route
//	base, err := patrol.Classify(g, start)
//
//	// 2. Count obstruction positions that trap the guard in a loop
//	res, err := search.Count(ctx, g, start, search.Options{Workers: 8})
//
//	fmt.Println(len(base.Visited), res.Loops)
//
// [pipeline.Runner] wraps these stages with result caching, timing and
// structured logging. The CLI and the HTTP server both go through it.
//
// # Infrastructure
//
// [cache] stores finished results keyed by a hash of the map and the options
// that change the answer. FileCache serves the CLI, RedisCache is shared by
// server replicas, and NullCache disables caching.
//
// [config] loads the TOML configuration file with defaults for every key.
//
// [errors] defines coded errors that map onto CLI messages and HTTP statuses.
//
// [observability] exposes hook points for parse, search, cache and HTTP
// events. The server installs Prometheus metrics behind them.
//
// # Testing
//
//	go test ./pkg/...           # All tests
//	go test ./pkg/search/...    # Specific package
//	go test -run Example ./...  # Examples only
//
// Redis tests are skipped unless PATROL_TEST_REDIS_ADDR is set.
//
// [grid]: https://pkg.go.dev/github.com/matzehuels/patrol/pkg/grid
// [patrol]: https://pkg.go.dev/github.com/matzehuels/patrol/pkg/patrol
// [search]: https://pkg.go.dev/github.com/matzehuels/patrol/pkg/search
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/patrol/pkg/pipeline
// [pipeline.Runner]: https://pkg.go.dev/github.com/matzehuels/patrol/pkg/pipeline#Runner
// [cache]: https://pkg.go.dev/github.com/matzehuels/patrol/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/patrol/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/patrol/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/patrol/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/patrol/pkg/buildinfo
package pkg
