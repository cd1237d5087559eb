package model

// Package model defines the queue data structures shared by the controller and
// the presentation layer: queue items, their status enum, video metadata and the
// format/resolution resolver. Records are plain data; only the download
// controller mutates live items.
