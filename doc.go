// Package sigcarve carves embedded objects out of byte buffers by signature.
//
// A Carver holds a catalog of signatures. Carve finds every occurrence of
// every signature in a buffer, lets the signature's Extractor cut a payload
// and two stream keys out of the bytes around the match, and hands the
// payload to a router that appends it as a length-prefixed record to the
// output stream owning either key.
//
// # Quick Start
//
//	sig := sigcarve.Signature{
//	    Name:    "magic",
//	    Pattern: []byte("MAGIC"),
//	    Width:   record.Short,
//	    Extract: sigcarve.Layout{
//	        Payload: sigcarve.Range{Offset: 9, Length: 7},
//	        Primary: []sigcarve.Range{{Offset: 5, Length: 4}},
//	    },
//	}
//
//	c, err := sigcarve.New(blobstore.NewLocalStore("./out"), []sigcarve.Signature{sig},
//	    sigcarve.WithPrefix("case-42/"),
//	    sigcarve.WithWorkers(4),
//	)
//	if err != nil {
//	    return err
//	}
//	defer c.Close(ctx)
//
//	report, err := c.Carve(ctx, buf)
//
// # Output
//
// Streams are named <prefix><decimal uint32><ext> where ext is ".sig" for
// records with a 2-byte size field and ".lsig" for a 4-byte one. Size
// fields are little-endian.
//
// # Failure Policy
//
// A signature that cannot be matched against a buffer (empty, longer than
// the scanned window) is skipped and listed in the Report; the others still
// run. A match whose payload cannot be extracted is counted as rejected.
// Failing to create or write an output stream aborts the carve.
package sigcarve
