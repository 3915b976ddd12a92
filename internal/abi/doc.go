// Package abi holds the arithmetic shared by layout computation and the
// memory backends: alignment rounding and overflow-checked sizes.
package abi
