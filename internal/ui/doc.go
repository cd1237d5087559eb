// Package ui contains the Fyne desktop interface: the links input, the queue
// list with one ItemRow per video, bulk actions, sorting and the settings
// dialog. Queue state arrives as snapshots from download.Queue and is applied
// on the fyne goroutine; user actions call back into the queue from
// background goroutines.
package ui
