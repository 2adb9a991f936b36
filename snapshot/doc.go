// Package snapshot persists the raw export of the last generation and reads
// the change list that drives incremental updates.
//
// An incremental update re-extracts seeds from the stored snapshot, merges
// them with seeds from the new export for the routes named in the change
// list, and then saves the rendered state as the next snapshot: the previous
// export with the updated routes spliced in from the new one (see
// parser.SpliceExports).
//
//	store := snapshot.NewFileStore("generated")
//	prev, err := store.Load(ctx)
//	if errors.Is(err, snapshot.ErrNotFound) {
//	    // first run: generate everything
//	}
//
// Three backends implement [Store]: [FileStore] keeps raw_data.json in the
// output directory, [BadgerStore] keeps snapshots in an on-disk badger
// database keyed by package name, and [S3Store] keeps them in an S3-compatible bucket.
package snapshot
