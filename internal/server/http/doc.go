// Package httpserver provides the REST gateway for VestFlow with JSON
// endpoints covering the payment stream lifecycle, the config surface,
// and the reference token bank.
//
// Example:
//
//	rt, _ := runtime.Open(runtime.Options{DataDir: "./data", Fsync: pebblestore.FsyncModeAlways, Config: config.Default()})
//	eng := engine.New(rt)
//	s := httpserver.New(rt, eng, logger)
//	ctx, cancel := context.WithCancel(context.Background())
//	defer cancel()
//	_ = s.ListenAndServe(ctx, ":8080")
package httpserver
