// Package normalisers provides parsers that turn raw file formats into
// domain types. The vtt subpackage parses the WebVTT transcripts that
// Teams stores alongside meeting recordings in OneDrive.
package normalisers
