// Package loader provides the feature loading system of the HTTP server.
//
// Each feature implements Feature and is registered with a Manager, which
// mounts the routes of every enabled feature in registration order.
//
//	mgr := loader.NewManager(logger)
//	mgr.Register(archive.NewFeature(svc))
//	err := mgr.LoadAll(app)
package loader
