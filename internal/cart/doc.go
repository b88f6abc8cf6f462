// Package cart decodes TIC-80 cartridges embedded in web player pages.
//
// Both catalogs sometimes serve an HTML player instead of the raw .tic file;
// the cartridge then sits in the page as a "var cartridge = [...]" byte
// array, usually zlib-compressed.
package cart
