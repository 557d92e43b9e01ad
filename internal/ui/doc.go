// Package ui contains the Fyne desktop interface: the URL entry, the profile
// table with per-row update buttons and the menu with the auto-update options.
// It never touches the store directly; profile updates go through the queue
// runner and every state change comes back through the queue Observer.
package ui
