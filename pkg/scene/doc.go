// Package scene defines the board, transform, and global parameter types
// shared by the carcass inference, formula, and adsorption packages.
package scene
