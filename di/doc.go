// Package di provides the service locator the hostkit bridges resolve their
// host services from.
//
// Services are addressed by a contract identifier paired with an interface
// name, mirroring how extension runtimes look up platform services. The
// container supports factory (fresh instance per lookup), lazy (constructed
// once on first lookup) and singleton registrations, with type-safe
// resolution through generics.
//
// # Registration
//
//	c := di.NewContainer()
//	c.RegisterFactory(di.Contracts.UnicodeConverter, func() charset.Codec {
//	    return charset.NewTextCodec()
//	})
//
// # Resolution
//
//	codec, err := di.Resolve[charset.Codec](c, di.Contracts.UnicodeConverter)
package di
