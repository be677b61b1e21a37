// Package extract pulls post links out of listing pages and a single media
// URL out of post pages.
//
// Both extractors work on documents parsed by goquery and never touch the
// network. Media extraction walks a fixed cascade of selectors: the
// full-size image first, then video sources by container type. The first
// element carrying a non-empty src wins.
package extract
