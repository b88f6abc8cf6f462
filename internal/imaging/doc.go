// Package imaging converts catalog cover GIFs to the PNG shape the frontend
// expects.
//
// TIC-80 covers come in integer upscales of the native 240x136 screen, or in
// 256x144 frames carrying an 8px/4px border around the screen. Both are
// normalized back to 240x136 with nearest-neighbor sampling so the pixel art
// stays crisp. Images that match neither shape pass through unchanged.
package imaging
