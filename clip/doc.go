// SPDX-License-Identifier: EPL-2.0

// Package clip loads sound assets into memory.
//
// A Catalog resolves a file's decoder from its extension, decodes the whole
// stream and returns a Clip carrying the PCM data plus the metadata the
// mixer needs, chiefly the duration used for playlist timing:
//
//	cat := clip.NewCatalog(nil)
//	effects, err := cat.LoadAll([]string{"sfx/jump.wav", "sfx/coin.ogg"})
package clip
