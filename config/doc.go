// Package config reads and writes the JSON files a sprig game keeps under
// its data directory:
//
//	data/config.json    read-only game configuration
//	data/settings.json  player settings, rewritten on every change
//	data/state.json     free-form persistent game state
//	data/keymap.json    extra key bindings
//	data/logs/          one JSON-lines log per run
//
// Documents are read with gjson and patched in place with sjson, so files
// keep any formatting and key order the author gave them.
//
// [Build] turns the loaded files into a ready sprig.Context.
package config
