// Package statsview serves charts of the emulator process's runtime
// statistics (heap, goroutines, GC pauses) while a ROM runs. The server is
// compiled in only with the statsview tag:
//
//	go build -tags statsview ./cmd/gones
//	gones -statsview -rom game.nes
//
// The listen address comes from debug.stats_addr in the config file and
// defaults to DefaultAddress. Other builds print a rebuild hint instead.
package statsview
