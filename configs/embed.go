// Package configs provides the embedded configuration template for
// omnishop.
//
// The template is embedded at build time with //go:embed so it ships with
// every distribution. 'omnishop config init' writes it to the data
// directory, where it is picked up on the next run (see
// internal/config.Load for the layering order: defaults, file,
// OMNISHOP_* environment variables).
package configs

import _ "embed"

// ConfigTemplate is the annotated default configuration written by
// 'omnishop config init'.
//
//go:embed config.example.yaml
var ConfigTemplate string
