// Package di indexes feature holders by name for the composition root.
//
// Features stay responsible for their own lazy, single build; the container
// only lets the application resolve them by key, list what has been built,
// and close everything on shutdown.
//
//	c := di.NewContainer()
//	_ = c.Register(login.Entry())
//	api := di.MustResolve[login.API](c, di.Names.Login)
package di
