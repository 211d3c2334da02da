// Package store persists country rows with GORM.
//
// Writes go through a Tx handle obtained from Store.Begin. The handle tracks
// whether it is open, committed or rolled back, and Rollback is safe to call in
// any state.
package store
