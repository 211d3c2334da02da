// Package refresh implements the cache refresh pipeline.
//
// A run moves through idle, fetching_external, normalizing and persisting,
// ending in committed or aborted. Only the committed state changes the store,
// and the summary artifacts are published after commit on a best-effort basis.
package refresh
