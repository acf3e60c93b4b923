// Package hatch applies ordered scaffolding recipes to generated projects.
package hatch

// Version is the current hatch release.
const Version = "0.1.0"
