// Package bizsearch embeds the bizsearch index tables and search overlay in
// a Go program.
//
// The client owns one table per family (catalogs, products, offerings,
// inventory, orders), kept either in local bleve/bbolt files or in Redis
// with RediSearch.
//
// # Indexing and search
//
//	client, _ := bizsearch.New(ctx,
//	    bizsearch.WithEmbedded("/var/lib/bizsearch"),
//	    bizsearch.WithCatalog(bizsearch.Endpoint{Host: "catalog", Port: 8080, Path: "DSProductCatalog"}),
//	)
//	defer client.Close()
//	_ = client.SaveCatalogs(ctx, catalogs)
//	hits, _ := client.SearchOwned(ctx, bizsearch.FamilyCatalogs, "rock")
//
// # Overlay
//
// Overlay wraps an existing handler, typically a reverse proxy to the
// catalog APIs, and rewrites list requests into id lookups:
//
//	http.ListenAndServe(":8000", client.Overlay(proxy))
package bizsearch
