// Package router multiplexes carved payloads into output streams.
//
// Every payload arrives with two keys derived from its content. The first
// payload of a logical stream creates a blob named
// <prefix><decimal uint32 id><ext> and registers it under both keys; later
// payloads carrying either key are appended to that same blob as records.
//
//	r := router.New[router.Key](store,
//	    router.WithPrefix("out/"),
//	    router.WithManifest("manifest.json", codec.JSON{}),
//	)
//	defer r.Close(ctx)
//
//	s, err := r.Route(ctx, payload, router.KeyOf(id), router.KeyOf(ver, crc), record.Short)
//
// A Router serializes routing with a single mutex, so it can be shared by
// concurrent scan workers.
package router
