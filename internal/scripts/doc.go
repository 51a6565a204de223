// Package scripts contains game scripts.
// Game-specific scripts can be placed in assets/scripts/ and will be
// copied here during build.
package scripts
