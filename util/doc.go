// Package util holds small string helpers shared by the config, server and
// account packages: size parsing, input normalisation and ID handling.
package util
